package biz

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// StateTTL 面板状态在 redis 中的保留时间
const StateTTL = 12 * time.Hour

// Tab 面板标签页
type Tab string

const (
	TabTestimonials  Tab = "testimonials"
	TabEvents        Tab = "events"
	TabGalleryImages Tab = "gallery_images"
	TabGalleryVideos Tab = "gallery_videos"
)

// Tabs in display order
var Tabs = []Tab{TabTestimonials, TabEvents, TabGalleryImages, TabGalleryVideos}

var tabLabels = map[Tab]string{
	TabTestimonials:  "Testimonials",
	TabEvents:        "Events",
	TabGalleryImages: "Gallery images",
	TabGalleryVideos: "Gallery videos",
}

func (t Tab) Valid() bool {
	_, ok := tabLabels[t]
	return ok
}

func (t Tab) Label() string {
	return tabLabels[t]
}

// Row is one entity as the dashboard lists it
type Row struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (r Row) matches(term string) bool {
	return strings.Contains(strings.ToLower(r.Title), term) ||
		strings.Contains(strings.ToLower(r.Subtitle), term)
}

// Notice 可关闭的错误提示
type Notice struct {
	Tab     Tab    `json:"tab"`
	Message string `json:"message"`
}

// State is one admin's dashboard state. Rows caches the last successful
// load per tab.
type State struct {
	UserID        string
	ActiveTab     Tab
	Search        string
	Rows          map[Tab][]Row
	Totals        map[Tab]int64
	Notice        *Notice
	PendingDelete DeleteTarget
}

func NewState(userID string) *State {
	return &State{
		UserID:    userID,
		ActiveTab: TabTestimonials,
		Rows:      make(map[Tab][]Row),
		Totals:    make(map[Tab]int64),
	}
}

type stateRecord struct {
	UserID        string        `json:"user_id"`
	ActiveTab     Tab           `json:"active_tab"`
	Search        string        `json:"search,omitempty"`
	Rows          map[Tab][]Row `json:"rows,omitempty"`
	Totals        map[Tab]int64 `json:"totals,omitempty"`
	Notice        *Notice       `json:"notice,omitempty"`
	PendingDelete *targetRecord `json:"pending_delete,omitempty"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	pending, err := encodeTarget(s.PendingDelete)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stateRecord{
		UserID:        s.UserID,
		ActiveTab:     s.ActiveTab,
		Search:        s.Search,
		Rows:          s.Rows,
		Totals:        s.Totals,
		Notice:        s.Notice,
		PendingDelete: pending,
	})
}

func (s *State) UnmarshalJSON(b []byte) error {
	var rec stateRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	pending, err := decodeTarget(rec.PendingDelete)
	if err != nil {
		return err
	}

	*s = State{
		UserID:        rec.UserID,
		ActiveTab:     rec.ActiveTab,
		Search:        rec.Search,
		Rows:          rec.Rows,
		Totals:        rec.Totals,
		Notice:        rec.Notice,
		PendingDelete: pending,
	}
	if s.Rows == nil {
		s.Rows = make(map[Tab][]Row)
	}
	if s.Totals == nil {
		s.Totals = make(map[Tab]int64)
	}
	if !s.ActiveTab.Valid() {
		s.ActiveTab = TabTestimonials
	}
	return nil
}

// StateStore persists State per admin. Load returns a fresh State when
// none is stored.
type StateStore interface {
	Load(ctx context.Context, userID string) (*State, error)
	Save(ctx context.Context, st *State) error
}
