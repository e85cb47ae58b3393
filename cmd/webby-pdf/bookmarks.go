package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/bookmarks"
	"github.com/justyntemme/webby-pdf/internal/state"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

// openStore opens FILE and loads its bookmark collection the way the viewer does
func openStore(env *state.LocalEnv, cmd *cli.Command) (*models.Document, *bookmarks.Store, error) {
	path := cmd.Args().Get(0)
	if len(path) == 0 {
		return nil, nil, errors.New("no FILE has been specified")
	}
	doc, err := env.Docs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	store := env.Bookmarks(doc)
	store.Load()
	return doc, store, nil
}

// pageArg parses PAGE and checks it against the document
func pageArg(cmd *cli.Command, doc *models.Document) (int, error) {
	arg := cmd.Args().Get(1)
	if len(arg) == 0 {
		return 0, errors.New("no PAGE has been specified")
	}
	page, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("malformed PAGE '%s': %w", arg, err)
	}
	if page < 1 || page > doc.PageCount {
		return 0, fmt.Errorf("page %d is out of range, document has %d pages", page, doc.PageCount)
	}
	return page, nil
}

func listBookmarks(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	doc, store, err := openStore(env, cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	marks := store.List()
	if len(marks) == 0 {
		env.Log.Info("No bookmarks", zap.String("document", doc.Title))
		return nil
	}
	for _, b := range marks {
		fmt.Fprintf(out, "%4d  %-12s  %s\n", b.Page, b.Label, b.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func addBookmark(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	doc, store, err := openStore(env, cmd)
	if err != nil {
		return err
	}
	page, err := pageArg(cmd, doc)
	if err != nil {
		return err
	}

	b, err := store.Add(page)
	if errors.Is(err, bookmarks.ErrDuplicate) {
		env.Log.Warn("Page is already bookmarked", zap.Int("page", page))
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to add bookmark: %w", err)
	}
	env.Log.Info("Bookmark added", zap.String("document", doc.Title), zap.String("label", b.Label))
	return nil
}

func removeBookmark(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	doc, store, err := openStore(env, cmd)
	if err != nil {
		return err
	}
	page, err := pageArg(cmd, doc)
	if err != nil {
		return err
	}

	if !store.Has(page) {
		env.Log.Warn("Page is not bookmarked", zap.Int("page", page))
		return nil
	}
	store.Remove(page)
	env.Log.Info("Bookmark removed", zap.String("document", doc.Title), zap.Int("page", page))
	return nil
}
