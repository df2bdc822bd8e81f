// Package testdata holds recorded detector output for tests.
package testdata

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayusman/showreel/internal/detector"
)

//go:embed hands/*.jsonl
var handsFS embed.FS

// response is one line of the landmark service output.
type response struct {
	Hands []struct {
		Points     []detector.Point3D `json:"points"`
		Handedness string             `json:"handedness"`
		Score      float64            `json:"score"`
	} `json:"hands"`
}

// LoadSequence loads a recorded session, one detector result per frame.
// Hands with fewer than detector.NumLandmarks points are dropped the way
// the live detector drops them.
func LoadSequence(name string) ([][]detector.HandLandmarks, error) {
	data, err := handsFS.ReadFile("hands/" + name + ".jsonl")
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}

	var seq [][]detector.HandLandmarks
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		var r response
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}

		hands := make([]detector.HandLandmarks, 0, len(r.Hands))
		for _, h := range r.Hands {
			if len(h.Points) < detector.NumLandmarks {
				continue
			}
			lm := detector.HandLandmarks{Handedness: h.Handedness, Score: h.Score}
			copy(lm.Points[:], h.Points)
			hands = append(hands, lm)
		}
		seq = append(seq, hands)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}
	return seq, nil
}
