package biz

import (
	"context"
	"strings"

	authbiz "github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	"go.uber.org/zap"
)

// Sessions resolves a session token to its admin
type Sessions interface {
	CurrentUser(ctx context.Context, token string) *authbiz.UserInfo
}

type Testimonials interface {
	List(ctx context.Context, page, pageSize int) (*content.ListResult[*testimonialbiz.Testimonial], error)
	Get(ctx context.Context, id int64) (*testimonialbiz.Testimonial, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Events interface {
	List(ctx context.Context, page, pageSize int, filter eventbiz.EventFilter) (*content.ListResult[*eventbiz.Event], error)
	Get(ctx context.Context, id int64) (*eventbiz.Event, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Gallery interface {
	ListImages(ctx context.Context, page, pageSize int, category string) (*content.ListResult[*gallerybiz.GalleryImage], error)
	GetImage(ctx context.Context, id int64) (*gallerybiz.GalleryImage, error)
	DeleteImage(ctx context.Context, id int64) (bool, error)
	ListVideos(ctx context.Context, page, pageSize int, category string) (*content.ListResult[*gallerybiz.GalleryVideo], error)
	GetVideo(ctx context.Context, id int64) (*gallerybiz.GalleryVideo, error)
	DeleteVideo(ctx context.Context, id int64) (bool, error)
}

// LoginForm describes the sign-in form shown to anonymous visitors
type LoginForm struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

var loginForm = LoginForm{Action: "/api/auth/sign-in", Fields: []string{"email", "password"}}

type TabInfo struct {
	Tab    Tab    `json:"tab"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// PendingView is the delete confirmation dialog
type PendingView struct {
	Tab     Tab     `json:"tab"`
	ID      int64   `json:"id"`
	Display Display `json:"display"`
}

// View is what the dashboard renders for one state
type View struct {
	Authenticated bool              `json:"authenticated"`
	Login         *LoginForm        `json:"login,omitempty"`
	User          *authbiz.UserInfo `json:"user,omitempty"`
	Tabs          []TabInfo         `json:"tabs,omitempty"`
	ActiveTab     Tab               `json:"active_tab,omitempty"`
	Search        string            `json:"search,omitempty"`
	Rows          []Row             `json:"rows"`
	Total         int64             `json:"total"`
	Notice        *Notice           `json:"notice,omitempty"`
	PendingDelete *PendingView      `json:"pending_delete,omitempty"`
}

// Controller 管理面板：标签页加载、搜索、删除确认
type Controller struct {
	sessions     Sessions
	testimonials Testimonials
	events       Events
	gallery      Gallery
	log          *logger.Logger
}

func NewController(sessions Sessions, testimonials Testimonials, events Events, gallery Gallery, log *logger.Logger) *Controller {
	return &Controller{
		sessions:     sessions,
		testimonials: testimonials,
		events:       events,
		gallery:      gallery,
		log:          log.Named("dashboard"),
	}
}

// Mount authenticates token and loads the active tab. An anonymous
// visitor gets the login form and st is left alone.
func (c *Controller) Mount(ctx context.Context, token string, st *State) *View {
	user := c.Authenticate(ctx, token)
	if user == nil {
		return AnonymousView()
	}
	return c.Open(ctx, user, st)
}

// Authenticate returns nil for anything but a live session
func (c *Controller) Authenticate(ctx context.Context, token string) *authbiz.UserInfo {
	return c.sessions.CurrentUser(ctx, token)
}

// AnonymousView is the login form
func AnonymousView() *View {
	form := loginForm
	return &View{Authenticated: false, Login: &form, Rows: []Row{}}
}

// Open loads the active tab of an authenticated admin's state
func (c *Controller) Open(ctx context.Context, user *authbiz.UserInfo, st *State) *View {
	st.UserID = user.ID
	if !st.ActiveTab.Valid() {
		st.ActiveTab = TabTestimonials
	}
	c.load(ctx, st, st.ActiveTab)
	return c.View(st, user)
}

// SwitchTab activates tab, clears the search and loads fresh rows
func (c *Controller) SwitchTab(ctx context.Context, st *State, tab Tab) error {
	if !tab.Valid() {
		return apperrors.NewValidationError("tab", "is not a dashboard tab")
	}
	st.ActiveTab = tab
	st.Search = ""
	c.load(ctx, st, tab)
	return nil
}

// SetSearch filters the active tab's cached rows; it issues no query
func (c *Controller) SetSearch(st *State, term string) {
	st.Search = strings.TrimSpace(term)
}

func (c *Controller) DismissNotice(st *State) {
	st.Notice = nil
}

// Reload refreshes the active tab from the store
func (c *Controller) Reload(ctx context.Context, st *State) {
	c.load(ctx, st, st.ActiveTab)
}

// RequestDelete looks the row up and holds it for confirmation
func (c *Controller) RequestDelete(ctx context.Context, st *State, tab Tab, id int64) error {
	target, err := c.resolve(ctx, tab, id)
	if err != nil {
		return err
	}
	st.PendingDelete = target
	return nil
}

func (c *Controller) resolve(ctx context.Context, tab Tab, id int64) (DeleteTarget, error) {
	switch tab {
	case TabTestimonials:
		item, err := c.testimonials.Get(ctx, id)
		if err != nil || item == nil {
			return nil, notFound(err, testimonialbiz.ErrTestimonialNotFound)
		}
		return TestimonialTarget{Item: item}, nil
	case TabEvents:
		item, err := c.events.Get(ctx, id)
		if err != nil || item == nil {
			return nil, notFound(err, eventbiz.ErrEventNotFound)
		}
		return EventTarget{Item: item}, nil
	case TabGalleryImages:
		item, err := c.gallery.GetImage(ctx, id)
		if err != nil || item == nil {
			return nil, notFound(err, gallerybiz.ErrImageNotFound)
		}
		return GalleryImageTarget{Item: item}, nil
	case TabGalleryVideos:
		item, err := c.gallery.GetVideo(ctx, id)
		if err != nil || item == nil {
			return nil, notFound(err, gallerybiz.ErrVideoNotFound)
		}
		return GalleryVideoTarget{Item: item}, nil
	}
	return nil, apperrors.NewValidationError("tab", "is not a dashboard tab")
}

func notFound(err, missing error) error {
	if err != nil {
		return err
	}
	return missing
}

// ConfirmDelete deletes the pending target and reloads the active tab.
// The pending delete is cleared whether or not the delete succeeds.
func (c *Controller) ConfirmDelete(ctx context.Context, st *State) (bool, error) {
	target := st.PendingDelete
	if target == nil {
		return false, apperrors.NewValidationError("pending_delete", "is required")
	}
	st.PendingDelete = nil

	var (
		deleted bool
		err     error
	)
	switch t := target.(type) {
	case TestimonialTarget:
		deleted, err = c.testimonials.Delete(ctx, t.Item.ID)
	case EventTarget:
		deleted, err = c.events.Delete(ctx, t.Item.ID)
	case GalleryImageTarget:
		deleted, err = c.gallery.DeleteImage(ctx, t.Item.ID)
	case GalleryVideoTarget:
		deleted, err = c.gallery.DeleteVideo(ctx, t.Item.ID)
	}
	if err != nil {
		st.Notice = &Notice{Tab: target.Tab(), Message: "Could not delete " + target.Display().Title}
		return false, err
	}

	c.Reload(ctx, st)
	return deleted, nil
}

func (c *Controller) CancelDelete(st *State) {
	st.PendingDelete = nil
}

// load fetches page 1 of tab. A failure sets a notice and keeps the cached
// rows; a result that arrives after ctx is done is dropped.
func (c *Controller) load(ctx context.Context, st *State, tab Tab) {
	rows, total, err := c.fetch(ctx, tab)
	if ctx.Err() != nil {
		c.log.WithContext(ctx).Debug("dashboard load discarded", zap.String("tab", string(tab)))
		return
	}
	if err != nil {
		c.log.WithContext(ctx).Error("dashboard load failed", zap.String("tab", string(tab)), zap.Error(err))
		st.Notice = &Notice{Tab: tab, Message: "Could not load " + strings.ToLower(tab.Label()) + ". Try again."}
		return
	}

	st.Rows[tab] = rows
	st.Totals[tab] = total
	if st.Notice != nil && st.Notice.Tab == tab {
		st.Notice = nil
	}
}

func (c *Controller) fetch(ctx context.Context, tab Tab) ([]Row, int64, error) {
	const page, size = 1, pagination.MaxPageSize

	switch tab {
	case TabTestimonials:
		res, err := c.testimonials.List(ctx, page, size)
		if err != nil {
			return nil, 0, err
		}
		return rowsOf(res.Items, func(t *testimonialbiz.Testimonial) Row {
			return Row{ID: t.ID, Title: t.Name, Subtitle: t.Role, Thumbnail: t.Image}
		}), res.Total, nil
	case TabEvents:
		res, err := c.events.List(ctx, page, size, eventbiz.EventFilter{})
		if err != nil {
			return nil, 0, err
		}
		return rowsOf(res.Items, func(e *eventbiz.Event) Row {
			return Row{ID: e.ID, Title: e.Title, Subtitle: eventSubtitle(e), Thumbnail: e.Image}
		}), res.Total, nil
	case TabGalleryImages:
		res, err := c.gallery.ListImages(ctx, page, size, "")
		if err != nil {
			return nil, 0, err
		}
		return rowsOf(res.Items, func(i *gallerybiz.GalleryImage) Row {
			return Row{ID: i.ID, Title: i.Title, Subtitle: i.Category, Thumbnail: i.URL}
		}), res.Total, nil
	case TabGalleryVideos:
		res, err := c.gallery.ListVideos(ctx, page, size, "")
		if err != nil {
			return nil, 0, err
		}
		return rowsOf(res.Items, func(v *gallerybiz.GalleryVideo) Row {
			return Row{ID: v.ID, Title: v.Title, Subtitle: v.Category, Thumbnail: v.Thumbnail}
		}), res.Total, nil
	}
	return nil, 0, apperrors.NewValidationError("tab", "is not a dashboard tab")
}

func rowsOf[T any](items []T, row func(T) Row) []Row {
	out := make([]Row, len(items))
	for i, item := range items {
		out[i] = row(item)
	}
	return out
}

// View renders st for user, applying the search to the active tab's rows
func (c *Controller) View(st *State, user *authbiz.UserInfo) *View {
	tabs := make([]TabInfo, len(Tabs))
	for i, t := range Tabs {
		tabs[i] = TabInfo{Tab: t, Label: t.Label(), Active: t == st.ActiveTab}
	}

	rows := st.Rows[st.ActiveTab]
	if term := strings.ToLower(st.Search); term != "" {
		filtered := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.matches(term) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	if rows == nil {
		rows = []Row{}
	}

	v := &View{
		Authenticated: true,
		User:          user,
		Tabs:          tabs,
		ActiveTab:     st.ActiveTab,
		Search:        st.Search,
		Rows:          rows,
		Total:         st.Totals[st.ActiveTab],
		Notice:        st.Notice,
	}
	if st.PendingDelete != nil {
		v.PendingDelete = &PendingView{
			Tab:     st.PendingDelete.Tab(),
			ID:      st.PendingDelete.TargetID(),
			Display: st.PendingDelete.Display(),
		}
	}
	return v
}
