package segment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/1ou/danton/internal/index"
	apperrors "github.com/1ou/danton/pkg/errors"
)

// Open restores a frozen segment from an index directory written by Writer.
func Open(dir string) (*index.Segment, error) {
	entries, docCount, err := readDict(filepath.Join(dir, TermDictFile))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, PostingListsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("index directory %s: %w", dir, apperrors.ErrIndexNotFound)
		}
		return nil, fmt.Errorf("reading postings file: %w", err)
	}

	dict := index.NewTermDict()
	for _, entry := range entries {
		end := entry.Offset + int64(entry.Length)
		if entry.Offset < 0 || end > int64(len(data)) {
			return nil, fmt.Errorf("postings blob for term %q out of range: %w",
				entry.Term, apperrors.ErrCorruptSegment)
		}
		postings, err := decodePostings(data[entry.Offset:end])
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", entry.Term, err)
		}
		if postings.DocFreq() != entry.DocFreq {
			return nil, fmt.Errorf("term %q doc freq mismatch: %w",
				entry.Term, apperrors.ErrCorruptSegment)
		}
		dict.Put(entry.Term, postings)
	}

	return index.RestoreSegment(dict, index.NewDocumentStore(), docCount), nil
}

func readDict(path string) ([]dictEntry, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("dictionary file %s: %w", path, apperrors.ErrIndexNotFound)
		}
		return nil, 0, fmt.Errorf("reading dictionary file: %w", err)
	}
	if len(data) < headerSize+footerSize {
		return nil, 0, fmt.Errorf("dictionary file truncated: %w", apperrors.ErrCorruptSegment)
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != magicBytes {
		return nil, 0, fmt.Errorf("bad magic bytes %x: %w", magic, apperrors.ErrCorruptSegment)
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != formatVersion {
		return nil, 0, fmt.Errorf("unsupported format version %d: %w", version, apperrors.ErrCorruptSegment)
	}
	termCount := int(binary.LittleEndian.Uint32(data[8:12]))
	docCount := int(binary.LittleEndian.Uint32(data[12:16]))
	tableLen := int(binary.LittleEndian.Uint64(data[16:24]))

	if len(data) != headerSize+tableLen+footerSize {
		return nil, 0, fmt.Errorf("dictionary file size mismatch: %w", apperrors.ErrCorruptSegment)
	}
	table := data[headerSize : headerSize+tableLen]
	checksum := binary.LittleEndian.Uint32(data[headerSize+tableLen:])
	if crc32.ChecksumIEEE(table) != checksum {
		return nil, 0, fmt.Errorf("dictionary checksum mismatch: %w", apperrors.ErrCorruptSegment)
	}

	var entries []dictEntry
	if err := json.Unmarshal(table, &entries); err != nil {
		return nil, 0, fmt.Errorf("parsing dictionary table: %w", err)
	}
	if len(entries) != termCount {
		return nil, 0, fmt.Errorf("dictionary term count mismatch: %w", apperrors.ErrCorruptSegment)
	}
	return entries, docCount, nil
}

func decodePostings(blob []byte) (index.PostingList, error) {
	if len(blob) < 4 {
		return nil, fmt.Errorf("postings blob truncated: %w", apperrors.ErrCorruptSegment)
	}
	count := int(binary.LittleEndian.Uint32(blob[0:4]))
	if len(blob) != 4+count*12 {
		return nil, fmt.Errorf("postings blob size mismatch: %w", apperrors.ErrCorruptSegment)
	}
	postings := make(index.PostingList, 0, count)
	off := 4
	var prev int64
	for i := 0; i < count; i++ {
		docID := int64(binary.LittleEndian.Uint64(blob[off : off+8]))
		freq := int32(binary.LittleEndian.Uint32(blob[off+8 : off+12]))
		off += 12
		if docID <= 0 || freq < 1 || (i > 0 && docID <= prev) {
			return nil, fmt.Errorf("postings ordering violated: %w", apperrors.ErrCorruptSegment)
		}
		postings = append(postings, index.PostingNode{DocID: docID, Freq: freq})
		prev = docID
	}
	return postings, nil
}
