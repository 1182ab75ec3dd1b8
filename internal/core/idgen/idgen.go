package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out unique int64 ids whose high bits are a millisecond
// timestamp, so ids sort in creation order.
type Generator interface {
	Next() int64
}

type SnowflakeGenerator struct {
	node *snowflake.Node
}

func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return &SnowflakeGenerator{node: node}, nil
}

func (g *SnowflakeGenerator) Next() int64 {
	return g.node.Generate().Int64()
}

var (
	defaultOnce sync.Once
	defaultGen  *SnowflakeGenerator
)

// Default returns a process-wide generator on node 1.
func Default() Generator {
	defaultOnce.Do(func() {
		gen, err := NewSnowflakeGenerator(1)
		if err != nil {
			panic(err)
		}
		defaultGen = gen
	})
	return defaultGen
}

// Sequence is a deterministic generator for tests.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}
