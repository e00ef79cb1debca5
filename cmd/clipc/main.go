// Command clipc compiles a song document or Clip DSL code and prints the
// resulting events.
//
//	clipc -song song.yaml -seed 7
//	clipc -demo
//	clipc -dsl 'clip(pattern="x-x_", notes="C4 E4")'
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Conceptual-Machines/magda-patterns/internal/arrangement"
	"github.com/Conceptual-Machines/magda-patterns/internal/config"
	"github.com/Conceptual-Machines/magda-patterns/internal/dsl"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
	"github.com/Conceptual-Machines/magda-patterns/pkg/embedded"
)

var errNoInput = errors.New("one of -song, -demo or -dsl is required")

func main() {
	songPath := flag.String("song", "", "path to a YAML song document")
	demo := flag.Bool("demo", false, "compile the built-in demo song")
	code := flag.String("dsl", "", "Clip DSL code to compile")
	seed := flag.Uint64("seed", 0, "seed for shuffle and random hits (0 = unseeded)")
	asJSON := flag.Bool("json", false, "print the compiled song as JSON")
	flag.Parse()

	// Optional, only for DEFAULT_* overrides
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	s, err := loadSong(ctx, *songPath, *demo, *code)
	if err != nil {
		log.Fatal(err)
	}

	opts := []song.Option{song.WithDefaults(cfg.ClipDefaults())}
	if *seed != 0 {
		opts = append(opts, song.WithSeed(*seed))
	}

	compiled, err := song.Compile(ctx, s, opts...)
	if err != nil {
		log.Fatal(err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(compiled); err != nil {
			log.Fatal(err)
		}
		return
	}
	fmt.Print(View(compiled))
}

func loadSong(ctx context.Context, path string, demo bool, code string) (*song.Song, error) {
	switch {
	case path != "":
		return song.Load(path)
	case demo:
		return song.Parse(embedded.DemoSongYAML)
	case code != "":
		return songFromDSL(ctx, code)
	default:
		return nil, errNoInput
	}
}

// songFromDSL wraps DSL clips into a one-channel song that plays each
// clip once, in order
func songFromDSL(ctx context.Context, code string) (*song.Song, error) {
	parser, err := dsl.NewParser()
	if err != nil {
		return nil, err
	}
	specs, err := parser.Parse(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(specs) > arrangement.MaxClips {
		return nil, fmt.Errorf("a channel holds at most %d clips, got %d", arrangement.MaxClips, len(specs))
	}

	slots := make([]byte, len(specs))
	for i := range specs {
		slots[i] = byte('0' + i)
	}

	return &song.Song{
		Name: "dsl",
		Channels: []song.Channel{{
			Name:        "dsl",
			Clips:       specs,
			Arrangement: string(slots),
		}},
	}, nil
}
