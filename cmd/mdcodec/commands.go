package main

import (
	"context"
	"flag"
	"io"
	"strconv"
	"time"

	"mdcodec/internal/catalog"
	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
	"mdcodec/internal/source"
	"mdcodec/pkg/conn"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"name":         cmdName,
	"id":           cmdID,
	"order-index":  cmdOrderIndex,
	"decompose":    cmdDecompose,
	"mm-index":     cmdMarketMakerIndex,
	"flags":        cmdFlags,
	"sources":      cmdSources,
	"catalog-save": cmdCatalogSave,
	"catalog-load": cmdCatalogLoad,
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string, positional int) error {
	if err := fs.Parse(args); err != nil {
		return errors.Wrapf(errUsage, "%s: %s", fs.Name(), err)
	}
	if fs.NArg() != positional {
		return errors.Wrapf(errUsage, "%s: expected %d argument(s), got %d", fs.Name(), positional, fs.NArg())
	}
	return nil
}

func cmdName(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("name")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}
	src, err := a.reg.ByName(fs.Arg(0))
	if err != nil {
		return err
	}
	return writeJSON(a.out, sourceOf(src))
}

func cmdID(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("id")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}
	id, err := parseSourceID(fs.Arg(0))
	if err != nil {
		return err
	}
	src, err := a.reg.BySourceID(id)
	if err != nil {
		return err
	}
	return writeJSON(a.out, sourceOf(src))
}

func cmdOrderIndex(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("order-index")
	srcArg := fs.String("source", "", "source name or id")
	exchangeArg := fs.String("exchange", "", "exchange code, special sources only")
	sub := fs.Int64("sub", 0, "sub-index")
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	src, err := resolveSource(a.reg, *srcArg)
	if err != nil {
		return err
	}
	exchange, err := parseExchange(*exchangeArg)
	if err != nil {
		return err
	}
	index, err := codec.ComposeOrderIndex(src.ID(), src.IsSpecial(), exchange, *sub)
	if err != nil {
		return err
	}
	parts, err := codec.DecomposeOrderIndex(index)
	if err != nil {
		return err
	}
	return writeJSON(a.out, orderIndexOf(index, parts))
}

func cmdDecompose(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("decompose")
	marketMaker := fs.Bool("mm", false, "decompose as a market maker index")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	v, err := strconv.ParseInt(fs.Arg(0), 0, 64)
	if err != nil {
		return errors.Wrapf(exception.ErrInvalidInput, "index: %q", fs.Arg(0))
	}
	index := codec.Index(v)

	if *marketMaker {
		if index < 0 {
			return errors.Wrapf(exception.ErrNegativeIndex, "index: %d", v)
		}
		return writeJSON(a.out, marketMakerIndexOf(index))
	}

	parts, err := codec.DecomposeOrderIndex(index)
	if err != nil {
		return err
	}
	return writeJSON(a.out, orderIndexOf(index, parts))
}

func cmdMarketMakerIndex(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("mm-index")
	exchangeArg := fs.String("exchange", "", "exchange code")
	mmid := fs.String("mm", "", "market maker id, up to 4 characters")
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	exchange, err := parseExchange(*exchangeArg)
	if err != nil {
		return err
	}
	code, err := codec.EncodeShortString(*mmid)
	if err != nil {
		return err
	}
	index, err := codec.ComposeMarketMakerIndex(exchange, code)
	if err != nil {
		return err
	}
	return writeJSON(a.out, marketMakerIndexOf(index))
}

func cmdFlags(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("flags")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}
	flags, err := codec.ParseEventFlags(fs.Arg(0))
	if err != nil {
		return err
	}
	return writeJSON(a.out, eventFlagsOf(flags))
}

func cmdSources(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("sources")
	kindArg := fs.String("kind", "", "only sources publishing this event kind")
	fullOrderBook := fs.Bool("full-order-book", false, "only sources carrying the full order book")
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	var list []*source.Source
	switch {
	case *kindArg != "":
		kind, ok := enum.ParseEventKind(*kindArg)
		if !ok {
			return errors.Wrapf(exception.ErrInvalidEventKind, "kind: %q", *kindArg)
		}
		view, err := a.reg.Publishable(kind)
		if err != nil {
			return err
		}
		list = view.Slice()
	case *fullOrderBook:
		list = a.reg.FullOrderBook().Slice()
	default:
		list = a.reg.Builtins()
	}

	out := make([]sourceJSON, 0, len(list))
	for _, src := range list {
		out = append(out, sourceOf(src))
	}
	return writeJSON(a.out, out)
}

func openStore(ctx context.Context, opt conn.Option) (*catalog.Store, func(), error) {
	client, err := conn.New(opt)
	if err != nil {
		return nil, nil, err
	}
	store, err := catalog.NewStore(ctx, client.DB())
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, func() {
		if err := client.Close(); err != nil {
			logs.Errorf("catalog: close %s: %+v", client.Driver(), err)
		}
	}, nil
}

func cmdCatalogSave(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(newFlagSet("catalog-save"), args, 0); err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, a.cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := store.SaveBuiltins(ctx, a.reg)
	if err != nil {
		return err
	}
	entry := journalEntry{Op: "catalog-save", Time: time.Now().UTC(), Saved: n}
	if err := appendJournal(a.cfg, entry); err != nil {
		return err
	}
	return writeJSON(a.out, entry)
}

func cmdCatalogLoad(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(newFlagSet("catalog-load"), args, 0); err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, a.cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := store.LoadBuiltins(ctx, a.reg)
	if err != nil {
		return err
	}
	entry := journalEntry{
		Op:         "catalog-load",
		Time:       time.Now().UTC(),
		Registered: result.Registered,
		Skipped:    result.Skipped,
	}
	if err := appendJournal(a.cfg, entry); err != nil {
		return err
	}
	return writeJSON(a.out, entry)
}

func resolveSource(reg *source.Registry, s string) (*source.Source, error) {
	if s == "" {
		return nil, errors.Wrap(errUsage, "order-index: -source is required")
	}
	id, err := parseSourceID(s)
	if err != nil {
		return reg.ByName(s)
	}
	src, err := reg.BySourceID(id)
	if err == nil {
		return src, nil
	}
	// All-digit names such as "1234" also parse as numbers.
	if byName, nameErr := reg.ByName(s); nameErr == nil {
		return byName, nil
	}
	return nil, err
}

func parseSourceID(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(exception.ErrInvalidSourceID, "id: %q", s)
	}
	return int32(v), nil
}

// parseExchange accepts a single character or a number.
func parseExchange(s string) (uint16, error) {
	switch {
	case s == "":
		return 0, nil
	case len(s) == 1:
		return uint16(s[0]), nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(exception.ErrInvalidExchangeCode, "exchange: %q", s)
	}
	return uint16(v), nil
}
