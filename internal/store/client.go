package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Common errors for store operations.
var (
	ErrUnauthorized = errors.New("store: unauthorized")
	ErrNotFound     = errors.New("store: not found")
)

// Service is the persistence boundary the application programs against.
type Service interface {
	// Day fetches the schedules and tasks for one date.
	Day(ctx context.Context, date string) (Day, error)

	// Memos fetches all memos for the owner.
	Memos(ctx context.Context) ([]Memo, error)

	// Quests fetches all quests for the owner.
	Quests(ctx context.Context) ([]Quest, error)

	// SaveDay upserts every schedule and task in the day.
	SaveDay(ctx context.Context, day Day) error

	// UpsertMemo creates or updates one memo.
	UpsertMemo(ctx context.Context, m Memo) error

	// UpsertQuest creates or updates one quest.
	UpsertQuest(ctx context.Context, q Quest) error

	// Delete removes one record by kind and id.
	Delete(ctx context.Context, kind Kind, id string) error
}

// Client implements Service over PostgREST-style row endpoints.
type Client struct {
	base   string
	apiKey string
	owner  string
	http   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a store client for one owner.
func NewClient(baseURL, apiKey, owner string, opts ...ClientOption) *Client {
	c := &Client{
		base:   baseURL,
		apiKey: apiKey,
		owner:  owner,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Day fetches the schedules and tasks for one date.
func (c *Client) Day(ctx context.Context, date string) (Day, error) {
	day := Day{Date: date}

	body, err := c.get(ctx, KindSchedule, url.Values{
		"owner": {"eq." + c.owner},
		"date":  {"eq." + date},
	})
	if err != nil {
		return day, err
	}
	gjson.ParseBytes(body).ForEach(func(_, row gjson.Result) bool {
		day.Schedules = append(day.Schedules, Schedule{
			ID:    row.Get("id").String(),
			Date:  row.Get("date").String(),
			Time:  row.Get("time").String(),
			Title: row.Get("title").String(),
			Note:  row.Get("note").String(),
		})
		return true
	})

	body, err = c.get(ctx, KindTask, url.Values{
		"owner": {"eq." + c.owner},
		"date":  {"eq." + date},
		"order": {"sort.asc"},
	})
	if err != nil {
		return day, err
	}
	gjson.ParseBytes(body).ForEach(func(_, row gjson.Result) bool {
		day.Tasks = append(day.Tasks, Task{
			ID:    row.Get("id").String(),
			Date:  row.Get("date").String(),
			Title: row.Get("title").String(),
			Done:  row.Get("done").Bool(),
			Sort:  int(row.Get("sort").Int()),
		})
		return true
	})

	return day, nil
}

// Memos fetches all memos for the owner, pinned first.
func (c *Client) Memos(ctx context.Context) ([]Memo, error) {
	body, err := c.get(ctx, KindMemo, url.Values{
		"owner": {"eq." + c.owner},
		"order": {"pinned.desc,updated_at.desc"},
	})
	if err != nil {
		return nil, err
	}

	var memos []Memo
	gjson.ParseBytes(body).ForEach(func(_, row gjson.Result) bool {
		updated, _ := time.Parse(time.RFC3339, row.Get("updated_at").String())
		memos = append(memos, Memo{
			ID:        row.Get("id").String(),
			Title:     row.Get("title").String(),
			Body:      row.Get("body").String(),
			Pinned:    row.Get("pinned").Bool(),
			UpdatedAt: updated,
		})
		return true
	})
	return memos, nil
}

// Quests fetches all quests for the owner.
func (c *Client) Quests(ctx context.Context) ([]Quest, error) {
	body, err := c.get(ctx, KindQuest, url.Values{
		"owner": {"eq." + c.owner},
	})
	if err != nil {
		return nil, err
	}

	var quests []Quest
	gjson.ParseBytes(body).ForEach(func(_, row gjson.Result) bool {
		q := Quest{
			ID:       row.Get("id").String(),
			Title:    row.Get("title").String(),
			Streak:   int(row.Get("streak").Int()),
			LastDone: row.Get("last_done").String(),
		}
		row.Get("weekdays").ForEach(func(_, d gjson.Result) bool {
			q.Weekdays = append(q.Weekdays, time.Weekday(d.Int()))
			return true
		})
		quests = append(quests, q)
		return true
	})
	return quests, nil
}

// SaveDay upserts every schedule and task in the day.
func (c *Client) SaveDay(ctx context.Context, day Day) error {
	if len(day.Schedules) > 0 {
		rows := "[]"
		for _, s := range day.Schedules {
			row, err := c.scheduleRow(s)
			if err != nil {
				return err
			}
			rows, _ = sjson.SetRaw(rows, "-1", row)
		}
		if err := c.upsert(ctx, KindSchedule, rows); err != nil {
			return err
		}
	}

	if len(day.Tasks) > 0 {
		rows := "[]"
		for _, t := range day.Tasks {
			row, err := c.taskRow(t)
			if err != nil {
				return err
			}
			rows, _ = sjson.SetRaw(rows, "-1", row)
		}
		if err := c.upsert(ctx, KindTask, rows); err != nil {
			return err
		}
	}

	return nil
}

// UpsertMemo creates or updates one memo.
func (c *Client) UpsertMemo(ctx context.Context, m Memo) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	row, _ := sjson.Set("{}", "id", m.ID)
	row, _ = sjson.Set(row, "owner", c.owner)
	row, _ = sjson.Set(row, "title", m.Title)
	row, _ = sjson.Set(row, "body", m.Body)
	row, _ = sjson.Set(row, "pinned", m.Pinned)
	row, _ = sjson.Set(row, "updated_at", m.UpdatedAt.UTC().Format(time.RFC3339))

	rows, _ := sjson.SetRaw("[]", "-1", row)
	return c.upsert(ctx, KindMemo, rows)
}

// UpsertQuest creates or updates one quest.
func (c *Client) UpsertQuest(ctx context.Context, q Quest) error {
	if q.ID == "" {
		q.ID = NewID()
	}
	days := make([]int, len(q.Weekdays))
	for i, d := range q.Weekdays {
		days[i] = int(d)
	}

	row, _ := sjson.Set("{}", "id", q.ID)
	row, _ = sjson.Set(row, "owner", c.owner)
	row, _ = sjson.Set(row, "title", q.Title)
	row, _ = sjson.Set(row, "weekdays", days)
	row, _ = sjson.Set(row, "streak", q.Streak)
	row, _ = sjson.Set(row, "last_done", q.LastDone)

	rows, _ := sjson.SetRaw("[]", "-1", row)
	return c.upsert(ctx, KindQuest, rows)
}

// Delete removes one record by kind and id.
func (c *Client) Delete(ctx context.Context, kind Kind, id string) error {
	query := url.Values{
		"owner": {"eq." + c.owner},
		"id":    {"eq." + id},
	}
	_, err := c.do(ctx, http.MethodDelete, c.endpoint(kind, query), nil, false)
	return err
}

func (c *Client) scheduleRow(s Schedule) (string, error) {
	if s.ID == "" {
		return "", fmt.Errorf("store: schedule %q has no id", s.Title)
	}
	row, _ := sjson.Set("{}", "id", s.ID)
	row, _ = sjson.Set(row, "owner", c.owner)
	row, _ = sjson.Set(row, "date", s.Date)
	row, _ = sjson.Set(row, "time", s.Time)
	row, _ = sjson.Set(row, "title", s.Title)
	row, _ = sjson.Set(row, "note", s.Note)
	return row, nil
}

func (c *Client) taskRow(t Task) (string, error) {
	if t.ID == "" {
		return "", fmt.Errorf("store: task %q has no id", t.Title)
	}
	row, _ := sjson.Set("{}", "id", t.ID)
	row, _ = sjson.Set(row, "owner", c.owner)
	row, _ = sjson.Set(row, "date", t.Date)
	row, _ = sjson.Set(row, "title", t.Title)
	row, _ = sjson.Set(row, "done", t.Done)
	row, _ = sjson.Set(row, "sort", t.Sort)
	return row, nil
}

func (c *Client) get(ctx context.Context, kind Kind, query url.Values) ([]byte, error) {
	// Reads are idempotent, so one retry on a 5xx is safe.
	return c.do(ctx, http.MethodGet, c.endpoint(kind, query), nil, true)
}

func (c *Client) upsert(ctx context.Context, kind Kind, rows string) error {
	_, err := c.do(ctx, http.MethodPost, c.endpoint(kind, nil), []byte(rows), false)
	return err
}

func (c *Client) endpoint(kind Kind, query url.Values) string {
	u := c.base + "/rest/v1/" + string(kind)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, retry bool) ([]byte, error) {
	data, status, err := c.roundTrip(ctx, method, endpoint, body)
	if err == nil && status >= 500 && retry {
		data, status, err = c.roundTrip(ctx, method, endpoint, body)
	}
	if err != nil {
		return nil, fmt.Errorf("store: %s %s: %w", method, endpoint, err)
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return nil, fmt.Errorf("store: %s %s: %w", method, endpoint, ErrUnauthorized)
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("store: %s %s: %w", method, endpoint, ErrNotFound)
	case status >= 400:
		return nil, fmt.Errorf("store: %s %s: unexpected status %d", method, endpoint, status)
	}

	return data, nil
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "resolution=merge-duplicates")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}
