package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/jmylchreest/reprint/pkg/render"
)

// ErrPublishFailed indicates the REST endpoint rejected a post.
var ErrPublishFailed = errors.New("publish failed")

const excerptLength = 180

// Post is the REST payload for a draft post.
type Post struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Excerpt string `json:"excerpt"`
	Author  int    `json:"author,omitempty"`
}

// NewPost builds a draft post from rendered block content. The metadata
// title is required.
func NewPost(meta render.Metadata, content string, author int) (*Post, error) {
	if err := meta.Require(render.FieldTitle); err != nil {
		return nil, err
	}
	return &Post{
		Title:   meta.Title,
		Slug:    Slug(meta.Title),
		Content: content,
		Status:  "draft",
		Excerpt: excerpt(content),
		Author:  author,
	}, nil
}

var slugFold = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ḃ", "b", "ċ", "c", "ḋ", "d", "ḟ", "f", "ġ", "g",
	"ṁ", "m", "ṗ", "p", "ṡ", "s", "ṫ", "t",
)

// Slug lowercases title, folds accented letters and joins words with hyphens.
// Punctuation is dropped.
func Slug(title string) string {
	folded := slugFold.Replace(strings.ToLower(title))
	clean := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(clean), "-")
}

// excerpt returns the first characters of the content's visible text.
func excerpt(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := []rune(strings.Join(strings.Fields(sb.String()), " "))
	if len(text) > excerptLength {
		text = text[:excerptLength]
	}
	return string(text) + "..."
}

// Client posts drafts to a WordPress REST endpoint.
type Client struct {
	Endpoint string
	User     string
	Password string

	HTTPClient *http.Client
}

// Publish sends post and returns the created post's id.
func (c *Client) Publish(ctx context.Context, post *Post) (int, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	// application passwords are displayed with spaces
	req.SetBasicAuth(c.User, strings.ReplaceAll(c.Password, " ", ""))

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%w: %s: %s", ErrPublishFailed, resp.Status, strings.TrimSpace(string(msg)))
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return created.ID, nil
}
