package common

// Environment variable keys
const (
	EnvFPLEmail         = "FPL_EMAIL"
	EnvFPLPassword      = "FPL_PASSWORD"
	EnvFPLTeamID        = "FPL_TEAM_ID"
	EnvBaseURL          = "BASE_URL"
	EnvLoginURL         = "LOGIN_URL"
	EnvLexiconURL       = "LEXICON_URL"
	EnvLexiconPath      = "LEXICON_PATH"
	EnvNewsSources      = "NEWS_SOURCES"
	EnvDataPath         = "DATA_PATH"
	EnvRunHour          = "RUN_HOUR"
	EnvMetricsPort      = "METRICS_PORT"
	EnvDashboardPort    = "DASHBOARD_PORT"
	EnvDryRun           = "DRY_RUN"
	EnvRESTTimeout      = "REST_TIMEOUT"
	EnvBudgetTenths     = "BUDGET_TENTHS"
	EnvMaxPerClub       = "MAX_PER_CLUB"
	EnvTransferWindow   = "FREE_TRANSFER_WINDOW"
	EnvSentimentEnabled = "SENTIMENT_ENABLED"
	EnvChipsEnabled     = "CHIPS_ENABLED"
)

// Configuration defaults
const (
	DefaultBaseURL        = "https://fantasy.premierleague.com"
	DefaultLoginURL       = "https://users.premierleague.com/accounts/login/"
	DefaultLexiconURL     = "https://raw.githubusercontent.com/cjhutto/vaderSentiment/master/vaderSentiment/vader_lexicon.txt"
	DefaultLexiconPath    = "data/vader_lexicon.txt"
	DefaultDataPath       = "data"
	DefaultRunHour        = 7 // 07:00 UTC daily
	DefaultMetricsPort    = 8080
	DefaultDashboardPort  = 8081
	DefaultBudgetTenths   = 1000 // £100.0m
	DefaultMaxPerClub     = 3
	DefaultTransferWindow = 24.0 // hours before deadline
)

// Squad composition rules
const (
	SquadSize = 15
	XISize    = 11
)

// Element types as served by bootstrap-static
const (
	PositionGKP = 1
	PositionDEF = 2
	PositionMID = 3
	PositionFWD = 4
)

// Common error messages
const (
	ErrMsgCredentialsRequired = "FPL email, password and team id are required"
	ErrMsgBaseURLRequired     = "baseURL is required"
	ErrMsgTeamIDNumeric       = "FPL_TEAM_ID must be a positive integer"
)

// News sources scanned for player sentiment, comma-joined for the
// NEWS_SOURCES environment override.
const DefaultNewsSources = "https://www.bbc.com/sport/football/premier-league," +
	"https://www.theguardian.com/football/premierleague," +
	"https://www.skysports.com/premier-league-news," +
	"https://www.espn.com/soccer/league/_/name/ENG.1," +
	"https://www.football.london/all-about/fantasy-football"
