package links

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dchest/uniuri"
)

// ErrExists is returned when a link was already generated for a uid.
var ErrExists = errors.New("link already exists")

var (
	digits = []byte("0123456789")
	hex    = []byte("0123456789abcdef")
)

// Link maps a user id to its referral URLs.
type Link struct {
	ID           string `json:"id"`
	UID          string `json:"uid"`
	PersonalLink string `json:"personal_link"`
	GroupLink    string `json:"group_link"`
	CustomLink   string `json:"custom_link"`
}

// Store persists links. A link is created once per uid and never changes.
type Store interface {
	// Create generates and stores the link of uid. It fails with ErrExists when
	// uid already has one.
	Create(ctx context.Context, uid string) (Link, error)
	// Get returns the link of uid or errors.ErrNotFound.
	Get(ctx context.Context, uid string) (Link, error)
	// UIDFromLink returns the owner of a personal, group or custom link, or
	// errors.ErrNotFound.
	UIDFromLink(ctx context.Context, link string) (string, error)
	Close() error
}

// Generator builds new links under a base URL.
type Generator struct {
	baseURL string
}

// NewGenerator returns a Generator for links like <baseURL>/i/<slug>/.
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Generate returns a fresh link for uid. The personal and custom links share
// the same random slug.
func (g *Generator) Generate(uid string) Link {
	slug := uniuri.NewLenChars(6, hex)
	return Link{
		ID:           "dondi-" + uniuri.NewLenChars(13, digits),
		UID:          uid,
		PersonalLink: fmt.Sprintf("%s/i/%s/", g.baseURL, slug),
		GroupLink:    "",
		CustomLink:   fmt.Sprintf("%s/r/%s/", g.baseURL, slug),
	}
}
