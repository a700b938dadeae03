package source

import "strconv"

// Ids of the default and special sources.
const (
	DefaultID      int32 = 0
	CompositeBidID int32 = 1
	CompositeAskID int32 = 2
	RegionalBidID  int32 = 3
	RegionalAskID  int32 = 4
	AggregateBidID int32 = 5
	AggregateAskID int32 = 6
	CompositeID    int32 = 7
	RegionalID     int32 = 8
	AggregateID    int32 = 9
)

// BuiltinSource is one row of the builtin table.
type BuiltinSource struct {
	ID    int32
	Name  string
	Flags PublishFlags
}

var specialSources = [...]BuiltinSource{
	{CompositeBidID, "COMPOSITE_BID", 0},
	{CompositeAskID, "COMPOSITE_ASK", 0},
	{RegionalBidID, "REGIONAL_BID", 0},
	{RegionalAskID, "REGIONAL_ASK", 0},
	{AggregateBidID, "AGGREGATE_BID", 0},
	{AggregateAskID, "AGGREGATE_ASK", 0},
	{CompositeID, "COMPOSITE", 0},
	{RegionalID, "REGIONAL", 0},
	{AggregateID, "AGGREGATE", 0},
	{DefaultID, "DEFAULT", PublishOrder | PublishAnalyticOrder | PublishOtcMarketsOrder | PublishSpreadOrder | FullOrderBook},
}

// Named sources; ids are composed from the names. Lower case names are the
// aggregated variants of the upper case feeds.
var namedSources = [...]struct {
	name  string
	flags PublishFlags
}{
	{"NTV", PublishOrder | FullOrderBook},
	{"ntv", PublishOrder},
	{"NFX", PublishOrder},
	{"ESPD", PublishOrder},
	{"XNFI", PublishOrder},
	{"ICE", PublishOrder},
	{"ISE", PublishOrder | PublishSpreadOrder},
	{"DEA", PublishOrder},
	{"DEX", PublishOrder},
	{"dex", PublishOrder},
	{"BYX", PublishOrder},
	{"BZX", PublishOrder},
	{"bzx", PublishOrder},
	{"BATE", PublishOrder},
	{"CHIX", PublishOrder},
	{"CEUX", PublishOrder},
	{"BXTR", PublishOrder},
	{"IST", PublishOrder},
	{"BI20", PublishOrder},
	{"ABE", PublishOrder},
	{"FAIR", PublishOrder},
	{"GLBX", PublishOrder | PublishAnalyticOrder},
	{"glbx", PublishOrder},
	{"ERIS", PublishOrder},
	{"XEUR", PublishOrder | PublishAnalyticOrder},
	{"xeur", PublishOrder},
	{"CFE", PublishOrder},
	{"C2OX", PublishOrder},
	{"SMFE", PublishOrder},
	{"smfe", PublishOrder},
	{"iex", PublishOrder},
	{"MEMX", PublishOrder},
	{"memx", PublishOrder},
	{"OCEA", PublishOrder},
	{"ocea", PublishOrder},
	{"pink", PublishOrder | PublishOtcMarketsOrder},
	{"ARCA", PublishOrder},
	{"arca", PublishOrder},
	{"CEDX", PublishOrder},
	{"cedx", PublishOrder},
	{"IGC", PublishOrder},
	{"igc", PublishOrder},
	{"EDX", PublishOrder | FullOrderBook},
	{"edx", PublishOrder},
	{"NUAM", PublishOrder | FullOrderBook},
	{"nuam", PublishOrder},
}

// BuiltinSources returns the compiled-in builtin table: special sources and
// the default source first, then the named feeds.
func BuiltinSources() []BuiltinSource {
	out := make([]BuiltinSource, 0, len(specialSources)+len(namedSources))
	out = append(out, specialSources[:]...)
	for _, n := range namedSources {
		id, err := ComposeID(n.name)
		if err != nil {
			panic(err)
		}
		out = append(out, BuiltinSource{ID: id, Name: n.name, Flags: n.flags})
	}
	return out
}

// Label renders a source id without a registry: the symbolic name of the
// default and special sources, the decoded name otherwise, the number when
// neither applies.
func Label(id int32) string {
	if id == DefaultID || IsSpecialSourceID(id) {
		for _, s := range specialSources {
			if s.ID == id {
				return s.Name
			}
		}
	}
	if name, err := DecodeName(id); err == nil {
		return name
	}
	return strconv.FormatInt(int64(id), 10)
}
