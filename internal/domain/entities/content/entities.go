// Package content defines the application's core content-related domain entities.
package content

import "time"

// BlockInstance is one placed, configured mod on a page. IDs are stable
// across reorders; Order is a dense zero-based index within the page.
type BlockInstance struct {
	ID         string         `json:"id" bson:"id"`
	TypeID     string         `json:"typeId" bson:"typeId"`
	Order      int            `json:"order" bson:"order"`
	Properties map[string]any `json:"properties" bson:"properties"`
}

// PageDocument is the unit of persistence: a whole page snapshot, blocks
// ordered by Order.
type PageDocument struct {
	ID          string           `json:"id" bson:"_id"`
	Title       string           `json:"title" bson:"title"`
	Slug        string           `json:"slug" bson:"slug"`
	Description *string          `json:"description,omitempty" bson:"description,omitempty"`
	Blocks      []*BlockInstance `json:"blocks" bson:"blocks"`
	IsPublished bool             `json:"isPublished" bson:"isPublished"`
	FontFamily  *string          `json:"fontFamily,omitempty" bson:"fontFamily,omitempty"`
	BgColour    *string          `json:"bgColour,omitempty" bson:"bgColour,omitempty"`
	Created     time.Time        `json:"created" bson:"created"`
	Changed     *time.Time       `json:"changed,omitempty" bson:"changed,omitempty"`
}

// PageSummary is the list-view projection of a page.
type PageSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	IsPublished bool   `json:"isPublished"`
	BlockCount  int    `json:"blockCount"`
}

// Summary returns the list-view projection for this page.
func (p *PageDocument) Summary() *PageSummary {
	return &PageSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		IsPublished: p.IsPublished,
		BlockCount:  len(p.Blocks),
	}
}

// Clone returns a deep copy of the page document. Block property bags are
// copied one level deep; nested composite values are shared.
func (p *PageDocument) Clone() *PageDocument {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Blocks = make([]*BlockInstance, len(p.Blocks))
	for i, b := range p.Blocks {
		nb := *b
		nb.Properties = make(map[string]any, len(b.Properties))
		for k, v := range b.Properties {
			nb.Properties[k] = v
		}
		cp.Blocks[i] = &nb
	}
	return &cp
}

// ForumThread is one discussion thread managed by the forum dashboard.
type ForumThread struct {
	ID       string     `json:"id" bson:"_id"`
	Title    string     `json:"title" bson:"title"`
	Author   string     `json:"author" bson:"author"`
	Body     string     `json:"body" bson:"body"`
	IsPinned bool       `json:"isPinned" bson:"isPinned"`
	IsLocked bool       `json:"isLocked" bson:"isLocked"`
	Created  time.Time  `json:"created" bson:"created"`
	Changed  *time.Time `json:"changed,omitempty" bson:"changed,omitempty"`
}

// EventItem is one calendar entry managed by the events dashboard.
type EventItem struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Location    *string    `json:"location,omitempty" bson:"location,omitempty"`
	StartsAt    time.Time  `json:"startsAt" bson:"startsAt"`
	EndsAt      *time.Time `json:"endsAt,omitempty" bson:"endsAt,omitempty"`
	Created     time.Time  `json:"created" bson:"created"`
	Changed     *time.Time `json:"changed,omitempty" bson:"changed,omitempty"`
}
