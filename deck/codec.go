package deck

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

// ErrCorruptSnapshot is returned when a snapshot buffer cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt deck snapshot")

// Snapshot is the persisted form of a scored deck.
type Snapshot struct {
	Hero       string
	Generation uint32
	Fitness    float64
	Cards      []string
}

// NewSnapshot captures d with its score.
func NewSnapshot(hero string, generation int, fitness float64, d Deck) Snapshot {
	return Snapshot{
		Hero:       hero,
		Generation: uint32(generation),
		Fitness:    fitness,
		Cards:      d.Names(),
	}
}

// Snapshot table layout (field slots).
const (
	snapshotHero = iota
	snapshotGeneration
	snapshotFitness
	snapshotCards
	snapshotFieldCount
)

func slot(field int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*field)
}

// EncodeSnapshot serializes s as a FlatBuffers table.
func EncodeSnapshot(s Snapshot) []byte {
	builder := flatbuffers.NewBuilder(512)

	// Strings and vectors must be built before the table.
	cardOffsets := make([]flatbuffers.UOffsetT, len(s.Cards))
	for i, name := range s.Cards {
		cardOffsets[i] = builder.CreateString(name)
	}
	builder.StartVector(flatbuffers.SizeUOffsetT, len(cardOffsets), flatbuffers.SizeUOffsetT)
	for i := len(cardOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(cardOffsets[i])
	}
	cardsOffset := builder.EndVector(len(cardOffsets))
	heroOffset := builder.CreateString(s.Hero)

	builder.StartObject(snapshotFieldCount)
	builder.PrependUOffsetTSlot(snapshotHero, heroOffset, 0)
	builder.PrependUint32Slot(snapshotGeneration, s.Generation, 0)
	builder.PrependFloat64Slot(snapshotFitness, s.Fitness, 0)
	builder.PrependUOffsetTSlot(snapshotCards, cardsOffset, 0)
	builder.Finish(builder.EndObject())

	return builder.FinishedBytes()
}

// DecodeSnapshot parses a buffer produced by EncodeSnapshot.
func DecodeSnapshot(buf []byte) (s Snapshot, err error) {
	if len(buf) < flatbuffers.SizeUOffsetT {
		return Snapshot{}, fmt.Errorf("%w: %d bytes", ErrCorruptSnapshot, len(buf))
	}
	// Out-of-range offsets panic inside the flatbuffers accessors.
	defer func() {
		if r := recover(); r != nil {
			s = Snapshot{}
			err = fmt.Errorf("%w: %v", ErrCorruptSnapshot, r)
		}
	}()

	t := flatbuffers.Table{Bytes: buf, Pos: flatbuffers.GetUOffsetT(buf)}

	if o := flatbuffers.UOffsetT(t.Offset(slot(snapshotHero))); o != 0 {
		s.Hero = string(t.ByteVector(o + t.Pos))
	}
	if o := flatbuffers.UOffsetT(t.Offset(slot(snapshotGeneration))); o != 0 {
		s.Generation = t.GetUint32(o + t.Pos)
	}
	if o := flatbuffers.UOffsetT(t.Offset(slot(snapshotFitness))); o != 0 {
		s.Fitness = t.GetFloat64(o + t.Pos)
	}
	if o := flatbuffers.UOffsetT(t.Offset(slot(snapshotCards))); o != 0 {
		n := t.VectorLen(o)
		start := t.Vector(o)
		s.Cards = make([]string, n)
		for j := 0; j < n; j++ {
			s.Cards[j] = string(t.ByteVector(start + flatbuffers.UOffsetT(j*flatbuffers.SizeUOffsetT)))
		}
	}
	return s, nil
}
