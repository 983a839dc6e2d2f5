package segment

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/1ou/danton/internal/index"
)

// Writer serialises frozen segments into an index directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting the given index directory.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:    dir,
		logger: slog.Default().With("component", "segment-writer"),
	}
}

// Write serialises the segment. Both artifacts are written to temp files
// and renamed on success, so a crash never leaves a half-written index.
func (w *Writer) Write(seg *index.Segment) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	entries, err := w.writePostings(seg)
	if err != nil {
		return err
	}
	if err := w.writeDict(entries, seg.DocCount()); err != nil {
		return err
	}

	w.logger.Info("segment written",
		"dir", w.dir,
		"terms", len(entries),
		"docs", seg.DocCount(),
	)
	return nil
}

// writePostings streams every term's postings blob in lexicographic term
// order and returns the dictionary entries locating them.
func (w *Writer) writePostings(seg *index.Segment) ([]dictEntry, error) {
	finalPath := filepath.Join(w.dir, PostingListsFile)
	tmpPath := finalPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("creating temp postings file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	entries := make([]dictEntry, 0, seg.TermCount())
	var offset int64
	var writeErr error

	seg.WalkTerms(func(term string, postings index.PostingList) {
		if writeErr != nil {
			return
		}
		blob := encodePostings(postings)
		if _, err := bw.Write(blob); err != nil {
			writeErr = fmt.Errorf("writing postings for term %q: %w", term, err)
			return
		}
		entries = append(entries, dictEntry{
			Term:    term,
			Offset:  offset,
			Length:  len(blob),
			DocFreq: postings.DocFreq(),
		})
		offset += int64(len(blob))
	})
	if writeErr != nil {
		return nil, writeErr
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flushing postings file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("syncing postings file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return nil, fmt.Errorf("renaming postings file: %w", err)
	}
	return entries, nil
}

func (w *Writer) writeDict(entries []dictEntry, docCount int) error {
	finalPath := filepath.Join(w.dir, TermDictFile)
	tmpPath := finalPath + ".tmp"

	table, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling dictionary table: %w", err)
	}

	buf := make([]byte, headerSize, headerSize+len(table)+footerSize)
	binary.LittleEndian.PutUint32(buf[0:4], magicBytes)
	binary.LittleEndian.PutUint32(buf[4:8], formatVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(entries)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(docCount))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(len(table)))
	buf = append(buf, table...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(table))

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp dictionary file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("writing dictionary file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing dictionary file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming dictionary file: %w", err)
	}
	return nil
}

// encodePostings packs a posting list little-endian: uint32 node count,
// then int64 doc id + int32 frequency per node.
func encodePostings(postings index.PostingList) []byte {
	buf := make([]byte, 0, 4+len(postings)*12)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(postings)))
	for _, node := range postings {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(node.DocID))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(node.Freq))
	}
	return buf
}
