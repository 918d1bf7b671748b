package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mtgfactory/internal/card"
)

// LookupCard resolves a free-text name to the best matching card. Fuzzy
// matching is done by the provider; the returned card's Name is the
// canonical name and should be used for any follow-up lookup.
//
// The error is ErrInvalidQuery, a *NotFoundError or a *TransientError.
// Nothing is retried.
func (c *Client) LookupCard(ctx context.Context, query string) (card.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return card.Card{}, ErrInvalidQuery
	}

	u := c.endpoint("/cards/named", url.Values{"fuzzy": {query}})
	status, body, err := c.fetch(ctx, u)
	if err != nil {
		return card.Card{}, &TransientError{Op: "lookup card", Query: query, Status: status, Err: err}
	}

	var envelope errorObject
	if json.Unmarshal(body, &envelope) == nil && envelope.Object == "error" {
		if reportsMiss(status) {
			return card.Card{}, &NotFoundError{
				Query:     query,
				Details:   envelope.Details,
				Ambiguous: envelope.Type == "ambiguous",
			}
		}
		return card.Card{}, &TransientError{Op: "lookup card", Query: query, Status: status, Err: providerError(envelope)}
	}

	if status/100 != 2 {
		return card.Card{}, &TransientError{Op: "lookup card", Query: query, Status: status, Err: unexpectedBody(body)}
	}

	var obj cardObject
	if err := json.Unmarshal(body, &obj); err != nil {
		return card.Card{}, &TransientError{Op: "lookup card", Query: query, Status: status, Err: fmt.Errorf("invalid card JSON: %w", err)}
	}
	if obj.Name == "" {
		return card.Card{}, &TransientError{Op: "lookup card", Query: query, Status: status, Err: errors.New("response has no card name")}
	}

	c.logger.Printf("resolved %q to %q", query, obj.Name)
	return obj.toCard(), nil
}

// LookupArtVersions lists every unique art print of the card with exactly
// this name, following pagination. It never fails: a failing page ends the
// walk and whatever was collected so far is returned, possibly nothing.
// Prints without images are dropped.
func (c *Client) LookupArtVersions(ctx context.Context, canonicalName string) []card.ArtVersion {
	name := strings.TrimSpace(canonicalName)
	versions := []card.ArtVersion{}
	if name == "" {
		return versions
	}

	next := c.endpoint("/cards/search", url.Values{"q": {fmt.Sprintf(`!"%s" unique:art`, name)}})
	for page := 1; ; page++ {
		if page > c.maxPages {
			c.logger.Printf("art versions for %q: stopping after %d pages", name, c.maxPages)
			break
		}
		if page > 1 {
			if err := sleep(ctx, c.pageDelay); err != nil {
				c.logger.Printf("art versions for %q: %v, returning %d versions", name, err, len(versions))
				break
			}
		}

		list, err := c.searchPage(ctx, next)
		if err != nil {
			c.logger.Printf("art versions for %q: page %d: %v, returning %d versions", name, page, err, len(versions))
			break
		}
		versions = append(versions, artVersions(list.Data)...)

		if !list.HasMore || list.NextPage == "" {
			break
		}
		next = list.NextPage
	}
	return versions
}

func (c *Client) searchPage(ctx context.Context, u string) (cardList, error) {
	var list cardList
	status, body, err := c.fetch(ctx, u)
	if err != nil {
		return list, err
	}
	if status/100 != 2 {
		var envelope errorObject
		if json.Unmarshal(body, &envelope) == nil && envelope.Object == "error" {
			return list, fmt.Errorf("HTTP %d: %w", status, providerError(envelope))
		}
		return list, fmt.Errorf("HTTP %d", status)
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return list, fmt.Errorf("invalid search JSON: %w", err)
	}
	if list.Object == "error" {
		return list, errors.New("provider returned an error object")
	}
	return list, nil
}

// reportsMiss tells whether an error envelope with this status means "no
// such card" rather than a provider hiccup.
func reportsMiss(status int) bool {
	if status/100 == 2 {
		return true
	}
	return status/100 == 4 && status != http.StatusTooManyRequests
}

func providerError(e errorObject) error {
	if e.Details != "" {
		return fmt.Errorf("%s: %s", e.Code, e.Details)
	}
	return fmt.Errorf("provider error %q", e.Code)
}

func unexpectedBody(body []byte) error {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	if s == "" {
		return errors.New("unexpected status with empty body")
	}
	return fmt.Errorf("unexpected status: %s", s)
}
