package main

import (
	"io"
	"strconv"
	"time"

	"mdcodec/internal/codec"
	"mdcodec/internal/ops"
	"mdcodec/internal/source"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
)

type sourceJSON struct {
	ID       int32  `json:"id"`
	Hex      string `json:"hex"`
	Name     string `json:"name"`
	Flags    string `json:"flags"`
	Builtin  bool   `json:"builtin"`
	Special  bool   `json:"special"`
	FullBook bool   `json:"fullOrderBook"`
}

func sourceOf(src *source.Source) sourceJSON {
	return sourceJSON{
		ID:       src.ID(),
		Hex:      "0x" + strconv.FormatUint(uint64(uint32(src.ID())), 16),
		Name:     src.Name(),
		Flags:    src.PublishFlags().String(),
		Builtin:  src.IsBuiltin(),
		Special:  src.IsSpecial(),
		FullBook: src.IsFullOrderBook(),
	}
}

type orderIndexJSON struct {
	Index    string `json:"index"`
	Value    int64  `json:"value"`
	SourceID int32  `json:"sourceId"`
	Source   string `json:"source"`
	Special  bool   `json:"special"`
	Exchange uint16 `json:"exchange,omitempty"`
	SubIndex int64  `json:"subIndex"`
}

func orderIndexOf(index codec.Index, parts codec.OrderIndexParts) orderIndexJSON {
	return orderIndexJSON{
		Index:    index.String(),
		Value:    int64(index),
		SourceID: parts.SourceID,
		Source:   source.Label(parts.SourceID),
		Special:  parts.Special,
		Exchange: parts.Exchange,
		SubIndex: parts.SubIndex,
	}
}

type marketMakerIndexJSON struct {
	Index       string `json:"index"`
	Value       int64  `json:"value"`
	Exchange    uint16 `json:"exchange,omitempty"`
	MarketMaker string `json:"marketMaker"`
}

func marketMakerIndexOf(index codec.Index) marketMakerIndexJSON {
	exchange, mmid := codec.DecomposeMarketMakerIndex(index)
	name, _ := codec.DecodeShortString(mmid)
	return marketMakerIndexJSON{
		Index:       index.String(),
		Value:       int64(index),
		Exchange:    exchange,
		MarketMaker: name,
	}
}

type eventFlagsJSON struct {
	Value   uint32 `json:"value"`
	Hex     string `json:"hex"`
	Text    string `json:"text"`
	Unknown uint32 `json:"unknown,omitempty"`
}

func eventFlagsOf(flags codec.EventFlags) eventFlagsJSON {
	return eventFlagsJSON{
		Value:   uint32(flags),
		Hex:     "0x" + strconv.FormatUint(uint64(flags), 16),
		Text:    flags.String(),
		Unknown: uint32(flags.Unknown()),
	}
}

type journalEntry struct {
	Op         string    `json:"op"`
	Time       time.Time `json:"time"`
	Saved      int       `json:"saved,omitempty"`
	Registered int       `json:"registered,omitempty"`
	Skipped    int       `json:"skipped,omitempty"`
}

func appendJournal(cfg ops.Loaded, entry journalEntry) error {
	w := cfg.OpenJournal()
	defer w.Close()

	line, err := sonic.ConfigFastest.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode journal entry")
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return errors.Wrap(err, "write journal")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
