package service

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/domain/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// validatePostInvariants checks the full-resource invariants against a
// complete next-state, not just the touched fields. It runs at the end of
// every merge and on every create, and returns every violation found.
//
// The draft normalization (draft forces published_at to null) must already
// have been applied; here a published post without a publication time is a
// violation.
func validatePostInvariants(p *models.Post) []string {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.By(notBlank("title is required."))),
		validation.Field(&p.Summary, validation.By(notBlank("summary is required."))),
		validation.Field(&p.BodyMarkdown, validation.By(notBlank("body_markdown is required."))),
		validation.Field(&p.AuthorName, validation.By(notBlank("author_name is required."))),
		validation.Field(&p.AuthorEmail, validation.By(notBlank("author_email is required."))),
		validation.Field(&p.Slug, validation.By(urlSafeSlug)),
		validation.Field(&p.TagNames, validation.By(atLeastOneTag)),
	)

	fields := flattenStructErrors(err, []string{
		"Title", "Summary", "BodyMarkdown", "AuthorName", "AuthorEmail", "Slug", "TagNames",
	})

	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		fields = append(fields, "published_at is required when status is published.")
	}
	return fields
}

// validateNewsInvariants is the news-item counterpart.
func validateNewsInvariants(n *models.NewsItem) []string {
	err := validation.ValidateStruct(n,
		validation.Field(&n.Category, validation.By(notBlank("category is required."))),
		validation.Field(&n.Title, validation.By(notBlank("title is required."))),
		validation.Field(&n.BodyMarkdown, validation.By(notBlank("body_markdown is required."))),
	)

	fields := flattenStructErrors(err, []string{"Category", "Title", "BodyMarkdown"})

	if n.Status == models.StatusPublished && n.PublishedAt == nil {
		fields = append(fields, "published_at is required when status is published.")
	}
	return fields
}

// flattenStructErrors converts ozzo's per-field error map into an ordered
// violation list. The key order is fixed so responses are deterministic.
func flattenStructErrors(err error, keys []string) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	var fields []string
	for _, key := range keys {
		if fieldErr, ok := fieldErrs[key]; ok {
			fields = append(fields, fieldErr.Error())
		}
	}
	return fields
}

func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func urlSafeSlug(value interface{}) error {
	s, _ := value.(string)
	if s == "" || !slugPattern.MatchString(s) {
		return errors.New("slug must be a non-empty URL-safe string.")
	}
	return nil
}

func atLeastOneTag(value interface{}) error {
	tags, _ := value.([]string)
	if len(tags) == 0 {
		return errors.New("At least one tag is required.")
	}
	return nil
}
