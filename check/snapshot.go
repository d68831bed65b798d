package check

import (
	"encoding/binary"

	"github.com/hupe1980/anongo/config"
)

// snapshot is the cached grouping of one checked transformation. Per class
// it stores the representative row, the counters and, if demanded, the
// sensitive distribution, flattened into one int32 stream:
//
//	[representative, count, (secondaryCount,) (numDistinct, (value, count)*,)]*
//
// A descendant transformation rebuilds its grouping from these records
// instead of the full table.
type snapshot struct {
	nodeID      int
	levels      []int
	numClasses  int
	compression config.Compression
	blob        []byte
}

// encodeSnapshot flattens a grouping. withSecondary and withDistribution
// mirror the configured requirements mask.
func encodeSnapshot(g *groupify, nodeID int, levels []int, withSecondary, withDistribution bool, c config.Compression) (*snapshot, error) {
	n := g.numClasses * 2
	if withSecondary {
		n += g.numClasses
	}
	if withDistribution {
		for e := g.first; e != nil; e = e.nextOrdered {
			n += 1 + 2*e.distribution.NumDistinct()
		}
	}

	words := make([]int32, 0, n)
	for e := g.first; e != nil; e = e.nextOrdered {
		words = append(words, int32(e.representative), int32(e.count))
		if withSecondary {
			words = append(words, int32(e.secondaryCount))
		}
		if withDistribution {
			words = append(words, int32(e.distribution.NumDistinct()))
			for i, v := range e.distribution.values {
				words = append(words, int32(v), int32(e.distribution.counts[i]))
			}
		}
	}

	raw := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(w))
	}
	blob, err := compressBlock(raw, c)
	if err != nil {
		return nil, err
	}

	return &snapshot{
		nodeID:      nodeID,
		levels:      append([]int(nil), levels...),
		numClasses:  g.numClasses,
		compression: c,
		blob:        blob,
	}, nil
}

// decode returns the int32 record stream.
func (s *snapshot) decode() ([]int32, error) {
	raw, err := decompressBlock(s.blob, s.compression)
	if err != nil {
		return nil, err
	}
	words := make([]int32, len(raw)/4)
	for i := range words {
		words[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return words, nil
}

// memorySize estimates the resident size in bytes.
func (s *snapshot) memorySize() int64 {
	return int64(len(s.blob)) + int64(len(s.levels))*8 + 64
}
