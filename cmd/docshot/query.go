package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alnah/go-docshot/internal/contentapi"
	"github.com/alnah/go-docshot/internal/dateutil"
)

// runShow prints one document.
func runShow(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseQueryFlags("show", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: show needs <article|paste> <id>", ErrUsage)
	}
	kind, err := contentapi.ParseKind(positional[0])
	if err != nil {
		return err
	}

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	doc, err := s.client.Document(ctx, kind, positional[1])
	if err != nil {
		return err
	}
	if f.json {
		return writeJSON(env.Stdout, doc)
	}
	printDocument(env.Stdout, doc, s.cfg.Render.DateFormat)
	return nil
}

// runRecent lists recently updated articles.
func runRecent(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseQueryFlags("recent", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 0 {
		return fmt.Errorf("%w: recent takes no arguments", ErrUsage)
	}

	q := contentapi.RecentQuery{Count: f.count, TruncatedCount: f.truncate}
	if f.updatedAfter != "" {
		t, err := parseTime(f.updatedAfter)
		if err != nil {
			return fmt.Errorf("%w: --updated-after: %v", ErrUsage, err)
		}
		q.UpdatedAfter = t
	}

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	docs, err := s.client.Recent(ctx, q)
	if err != nil {
		return err
	}
	return printDocuments(env.Stdout, docs, f.json, s.cfg.Render.DateFormat)
}

// runCount prints the number of articles.
func runCount(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseQueryFlags("count", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 0 {
		return fmt.Errorf("%w: count takes no arguments", ErrUsage)
	}

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	n, err := s.client.Count(ctx)
	if err != nil {
		return err
	}
	if f.json {
		return writeJSON(env.Stdout, map[string]int{"count": n})
	}
	fmt.Fprintln(env.Stdout, n)
	return nil
}

// runRelevant lists articles related to one article.
func runRelevant(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseQueryFlags("relevant", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: relevant needs <id>", ErrUsage)
	}

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	docs, err := s.client.Relevant(ctx, positional[0])
	if err != nil {
		return err
	}
	return printDocuments(env.Stdout, docs, f.json, s.cfg.Render.DateFormat)
}

// runHistory lists the revisions of one article.
func runHistory(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseQueryFlags("history", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: history needs <id>", ErrUsage)
	}

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	revs, err := s.client.History(ctx, positional[0])
	if err != nil {
		return err
	}
	if f.json {
		return writeJSON(env.Stdout, revs)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REVISION\tDATE\tTITLE")
	for _, r := range revs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, formatDate(s.cfg.Render.DateFormat, r.CreatedAt), r.Title)
	}
	return tw.Flush()
}

// printDocument writes a document header followed by its raw content.
func printDocument(w io.Writer, doc *contentapi.Document, dateFormat string) {
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	fmt.Fprintln(w, title)

	meta := []string{"id: " + doc.ID}
	if doc.AuthorID != 0 {
		meta = append(meta, fmt.Sprintf("author: #%d", doc.AuthorID))
	}
	if date := formatDate(dateFormat, lastModified(doc)); date != "" {
		meta = append(meta, "updated: "+date)
	}
	if doc.Deleted {
		meta = append(meta, "deleted: "+doc.DeleteReason)
	}
	fmt.Fprintln(w, strings.Join(meta, "  "))
	fmt.Fprintln(w, "---")

	body := doc.Content
	if body == "" {
		body = doc.Rendered
	}
	fmt.Fprintln(w, body)
}

// printDocuments writes a document list as a table or JSON.
func printDocuments(w io.Writer, docs []contentapi.Document, asJSON bool, dateFormat string) error {
	if asJSON {
		return writeJSON(w, docs)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPDATED\tTITLE")
	for i := range docs {
		d := &docs[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, formatDate(dateFormat, lastModified(d)), d.Title)
	}
	return tw.Flush()
}

func lastModified(doc *contentapi.Document) time.Time {
	if !doc.UpdatedAt.IsZero() {
		return doc.UpdatedAt
	}
	return doc.CreatedAt
}

// formatDate formats t, falling back to the default format when format is
// invalid. Config validation normally rules that out.
func formatDate(format string, t time.Time) string {
	s, err := dateutil.Format(format, t)
	if err != nil {
		s, _ = dateutil.Format("", t)
	}
	return s
}

// parseTime accepts RFC 3339 timestamps and YYYY-MM-DD dates (UTC).
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
