package relation

import "github.com/vmihailenco/msgpack/v5"

// ToOne persists as the bare target id inside the owning record's row.
// An unstored target encodes as zero; the owning record's persistence
// step must put the target and MarkStored before encoding.
var (
	_ msgpack.CustomEncoder = (*ToOne[Entity])(nil)
	_ msgpack.CustomDecoder = (*ToOne[Entity])(nil)
	_ msgpack.CustomEncoder = (*ToMany[Entity])(nil)
	_ msgpack.CustomDecoder = (*ToMany[Entity])(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (r *ToOne[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeUint64(r.targetID)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (r *ToOne[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	id, err := dec.DecodeUint64()
	if err != nil {
		return err
	}
	*r = OneWithID[T](id)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder. Multi-target links
// live in standalone relation rows, never inside the owning record, so
// the in-row representation is always nil.
func (r *ToMany[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeNil()
}

// DecodeMsgpack implements msgpack.CustomDecoder. Decoding resets the
// relation to unloaded; targets arrive later through SetItems.
func (r *ToMany[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := dec.Skip(); err != nil {
		return err
	}
	*r = ToMany[T]{}
	return nil
}
