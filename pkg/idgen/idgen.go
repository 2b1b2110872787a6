package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// IDGenerator is the interface for generating unique message Ids
type IDGenerator interface {
	// NextID generates a new unique Id
	NextID() (int64, error)
}

// SonyflakeGenerator implements IDGenerator using sonyflake
type SonyflakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflakeGenerator creates a new SonyflakeGenerator
func NewSonyflakeGenerator(machineID uint16) (*SonyflakeGenerator, error) {
	st := sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID: func() (uint16, error) {
			return machineID, nil
		},
	}

	sf, err := sonyflake.New(st)
	if err != nil {
		return nil, fmt.Errorf("failed to create sonyflake: %w", err)
	}

	return &SonyflakeGenerator{sf: sf}, nil
}

// NextID generates a new unique Id
func (g *SonyflakeGenerator) NextID() (int64, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return 0, fmt.Errorf("failed to generate id: %w", err)
	}
	return int64(id), nil
}

// Global default generator
var (
	defaultGenerator IDGenerator
	once             sync.Once
	initErr          error
)

// SetDefaultGenerator sets the default Id generator
func SetDefaultGenerator(gen IDGenerator) {
	defaultGenerator = gen
}

// GetDefaultGenerator returns the default Id generator
// If not set, creates a SonyflakeGenerator with machineID 1
func GetDefaultGenerator() (IDGenerator, error) {
	once.Do(func() {
		if defaultGenerator == nil {
			defaultGenerator, initErr = NewSonyflakeGenerator(1)
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return defaultGenerator, nil
}

// NextID generates a new Id using the default generator
func NextID() (int64, error) {
	gen, err := GetDefaultGenerator()
	if err != nil {
		return 0, err
	}
	return gen.NextID()
}
