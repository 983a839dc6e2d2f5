// Package segment serialises a frozen index to disk and restores it. An
// index directory holds two artifacts: the term dictionary and the raw
// posting lists. Documents themselves are not persisted; restored segments
// answer queries with ids and scores only.
package segment

// Index directory artifacts.
const (
	TermDictFile     = "terms_dict.dat"
	PostingListsFile = "posting_lists.dat"
)

// Term dictionary file layout: a fixed header, a JSON entry table ordered
// by term, and a CRC32 footer covering the table bytes.
const (
	magicBytes    uint32 = 0x444E544E
	formatVersion uint32 = 1
	headerSize           = 32
	footerSize           = 4
)

// dictEntry locates one term's postings blob inside the posting lists file.
type dictEntry struct {
	Term    string `json:"t"`
	Offset  int64  `json:"o"`
	Length  int    `json:"l"`
	DocFreq int    `json:"d"`
}
