package packet

import (
	"bytes"
	"fmt"

	"github.com/quartzmc/quartz/protocol"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// ChunkData carries one chunk column. Mask is a bitmap of the sections
// present in Data, bit 0 being the lowest section. Data itself is decoded
// separately by the chunk package; the session hands it over untouched.
type ChunkData struct {
	X         int32
	Z         int32
	FullChunk bool
	Mask      int32
	// Heightmaps is a big-endian NBT compound of packed heightmap arrays.
	Heightmaps map[string]any
	Data       []byte
	// BlockEntities holds the raw NBT compounds trailing the chunk data.
	BlockEntities []map[string]any
}

// ID ...
func (pk *ChunkData) ID() int32 {
	return IDChunkData
}

// Encode ...
func (pk *ChunkData) Encode(buf *bytes.Buffer) {
	WriteInt32(buf, pk.X)
	WriteInt32(buf, pk.Z)
	WriteBool(buf, pk.FullChunk)
	protocol.WriteVarInt32(buf, pk.Mask)

	heightmaps := pk.Heightmaps
	if heightmaps == nil {
		heightmaps = map[string]any{}
	}
	_ = nbt.NewEncoderWithEncoding(buf, nbt.BigEndian).Encode(heightmaps)

	WriteByteSlice(buf, pk.Data)

	protocol.WriteVarInt32(buf, int32(len(pk.BlockEntities)))
	for _, blockEntity := range pk.BlockEntities {
		_ = nbt.NewEncoderWithEncoding(buf, nbt.BigEndian).Encode(blockEntity)
	}
}

// Decode ...
func (pk *ChunkData) Decode(buf *bytes.Buffer) (err error) {
	if pk.X, err = ReadInt32(buf); err != nil {
		return err
	}
	if pk.Z, err = ReadInt32(buf); err != nil {
		return err
	}
	if pk.FullChunk, err = ReadBool(buf); err != nil {
		return err
	}
	if pk.Mask, err = protocol.ReadVarInt32(buf); err != nil {
		return err
	}

	pk.Heightmaps = map[string]any{}
	if err := nbt.NewDecoderWithEncoding(buf, nbt.BigEndian).Decode(&pk.Heightmaps); err != nil {
		return fmt.Errorf("decode heightmaps: %w", err)
	}

	if pk.Data, err = ReadByteSlice(buf); err != nil {
		return err
	}

	count, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return err
	}
	pk.BlockEntities = nil
	for i := int32(0); i < count; i++ {
		blockEntity := map[string]any{}
		if err := nbt.NewDecoderWithEncoding(buf, nbt.BigEndian).Decode(&blockEntity); err != nil {
			return fmt.Errorf("decode block entity %d: %w", i, err)
		}
		pk.BlockEntities = append(pk.BlockEntities, blockEntity)
	}
	return nil
}
