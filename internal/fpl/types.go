package fpl

import (
	"strconv"
	"time"
)

// Bootstrap is the relevant subset of /api/bootstrap-static/.
type Bootstrap struct {
	Events   []Event   `json:"events"`
	Elements []Element `json:"elements"`
	Teams    []Team    `json:"teams"`
}

// Event is a gameweek entry. DeadlineTime is RFC3339 UTC.
type Event struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	IsNext       bool   `json:"is_next"`
	IsCurrent    bool   `json:"is_current"`
	Finished     bool   `json:"finished"`
}

// Deadline parses the event deadline. The zero time is returned on
// malformed input so callers can treat it as already passed.
func (e Event) Deadline() time.Time {
	t, err := time.Parse(time.RFC3339, e.DeadlineTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HoursToDeadline returns the signed hours between now and the deadline.
func (e Event) HoursToDeadline(now time.Time) float64 {
	return e.Deadline().Sub(now).Hours()
}

// NextEvent returns the upcoming gameweek, or false when the season has
// no next event yet.
func (b *Bootstrap) NextEvent() (Event, bool) {
	for _, ev := range b.Events {
		if ev.IsNext {
			return ev, true
		}
	}
	return Event{}, false
}

// Element is a player row from bootstrap-static. The expected-points,
// form and ICT fields arrive as strings on the wire.
type Element struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`
	EPNext      string `json:"ep_next"`
	Form        string `json:"form"`
	ICTIndex    string `json:"ict_index"`
	Status      string `json:"status"`
	News        string `json:"news"`
}

// EPNextF returns ep_next as a float, 0 when empty or malformed.
func (e Element) EPNextF() float64 { return parseF(e.EPNext) }

// FormF returns form as a float, 0 when empty or malformed.
func (e Element) FormF() float64 { return parseF(e.Form) }

// ICTF returns ict_index as a float, 0 when empty or malformed.
func (e Element) ICTF() float64 { return parseF(e.ICTIndex) }

func parseF(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Team is a club row from bootstrap-static.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// MyTeam is the authenticated /api/my-team/{id}/ response subset.
type MyTeam struct {
	Picks     []Pick        `json:"picks"`
	Transfers TransferState `json:"transfers"`
	Chips     []Chip        `json:"chips"`
}

// Pick is one owned player slot.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
	SellingPrice  int  `json:"selling_price"`
	PurchasePrice int  `json:"purchase_price"`
}

// TransferState carries the bank balance and free transfer allowance.
// Limit is null during unlimited-transfer windows.
type TransferState struct {
	Bank  int  `json:"bank"`
	Limit *int `json:"limit"`
	Made  int  `json:"made"`
	Value int  `json:"value"`
}

// FreeLeft returns the remaining free transfers, or -1 when unlimited.
func (t TransferState) FreeLeft() int {
	if t.Limit == nil {
		return -1
	}
	left := *t.Limit - t.Made
	if left < 0 {
		return 0
	}
	return left
}

// Chip is a chip availability row from my-team.
type Chip struct {
	Name           string `json:"name"`
	StatusForEntry string `json:"status_for_entry"`
}

// TransferItem is one element swap in a transfer payload.
type TransferItem struct {
	ElementOut    int `json:"element_out"`
	ElementIn     int `json:"element_in"`
	PurchasePrice int `json:"purchase_price"`
	SellingPrice  int `json:"selling_price"`
}

// TransferPayload is the body posted to /api/my-team/{id}/transfers/.
// Squad/Captain/ViceCaptain are only sent on unlimited (GW1) submissions.
type TransferPayload struct {
	Entry       int            `json:"entry"`
	Event       int            `json:"event"`
	Transfers   []TransferItem `json:"transfers"`
	Chip        *string        `json:"chip"`
	Confirmed   bool           `json:"confirmed"`
	Squad       []int          `json:"squad,omitempty"`
	Captain     int            `json:"captain,omitempty"`
	ViceCaptain int            `json:"vice_captain,omitempty"`
}

// PickItem is one slot in a picks payload.
type PickItem struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// PicksPayload is the body posted to /api/my-team/{id}/.
type PicksPayload struct {
	Picks        []PickItem `json:"picks"`
	Chips        []string   `json:"chips"`
	EntryHistory struct {
		Event int `json:"event"`
	} `json:"entry_history"`
}
