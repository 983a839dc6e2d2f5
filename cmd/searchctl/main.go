// Command searchctl builds and queries index directories offline, without
// the service stack: -build reads a JSON document collection and writes the
// segment artifacts, -query loads them and prints ranked matches.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/1ou/danton/internal/index"
	"github.com/1ou/danton/internal/search"
	"github.com/1ou/danton/internal/segment"
	"github.com/1ou/danton/internal/tokenizer"
	"github.com/1ou/danton/pkg/logger"
)

func main() {
	indexDir := flag.String("index", "index", "index directory")
	build := flag.Bool("build", false, "build the index from -docs")
	docsPath := flag.String("docs", "", "JSON file with [{\"id\":1,\"text\":\"...\"}]")
	query := flag.String("query", "", "query to run against the index")
	k := flag.Int("k", 10, "number of results to return")
	tokName := flag.String("tokenizer", "whitespace", "tokenizer: whitespace or normalizing")
	flag.Parse()

	logger.Setup("info", "text")

	tok, err := tokenizer.New(*tokName)
	if err != nil {
		fatal(err)
	}

	switch {
	case *build:
		if *docsPath == "" {
			fatal(fmt.Errorf("-build requires -docs"))
		}
		if err := runBuild(*indexDir, *docsPath, tok); err != nil {
			fatal(err)
		}
	case *query != "":
		if err := runQuery(*indexDir, *query, *k, tok); err != nil {
			fatal(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runBuild(dir, docsPath string, tok tokenizer.Tokenizer) error {
	data, err := os.ReadFile(docsPath)
	if err != nil {
		return fmt.Errorf("reading documents file: %w", err)
	}
	var docs []index.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("parsing documents file: %w", err)
	}

	seg, err := index.Build(docs, tok)
	if err != nil {
		return err
	}
	if err := segment.NewWriter(dir).Write(seg); err != nil {
		return err
	}
	fmt.Printf("indexed %d documents (%d terms) into %s\n",
		seg.DocCount(), seg.TermCount(), dir)
	return nil
}

func runQuery(dir, query string, k int, tok tokenizer.Tokenizer) error {
	seg, err := segment.Open(dir)
	if err != nil {
		return err
	}

	engine := search.NewEngine(tok, 0)
	engine.Swap(seg)

	result, err := engine.Search(context.Background(), query, k)
	if err != nil {
		return err
	}
	if len(result.Results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	fmt.Printf("%d matches, showing top %d:\n", result.TotalHits, len(result.Results))
	for i, doc := range result.Results {
		fmt.Printf("%2d. doc %d  score %.4f\n", i+1, doc.ID, doc.Score)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "searchctl:", err)
	os.Exit(1)
}
