package component

import "strconv"

// Kind tags what an Entity handle refers to.
type Kind uint8

const (
	KindNone Kind = iota
	KindCharacter
	KindParticle
)

// Entity is a generational handle. The low 32 bits hold the slot index
// (1-based), the next 24 bits the slot generation and the top 8 bits the Kind.
type Entity uint64

// None is the invalid handle.
const None Entity = 0

const (
	indexBits = 32
	genBits   = 24
	genMask   = 1<<genBits - 1
)

func MakeEntity(kind Kind, index uint32, gen uint32) Entity {
	return Entity(uint64(kind)<<(indexBits+genBits) | uint64(gen&genMask)<<indexBits | uint64(index))
}

func (e Entity) Kind() Kind {
	return Kind(uint64(e) >> (indexBits + genBits))
}

func (e Entity) Index() uint32 {
	return uint32(e)
}

func (e Entity) Generation() uint32 {
	return uint32(uint64(e)>>indexBits) & genMask
}

func (e Entity) Valid() bool {
	return e.Kind() != KindNone && e.Index() > 0
}

func (e Entity) IsCharacter() bool {
	return e.Valid() && e.Kind() == KindCharacter
}

func (e Entity) IsParticle() bool {
	return e.Valid() && e.Kind() == KindParticle
}

func (e Entity) String() string {
	switch e.Kind() {
	case KindCharacter:
		return "chr:" + strconv.FormatUint(uint64(e.Index()), 10) + "@" + strconv.FormatUint(uint64(e.Generation()), 10)
	case KindParticle:
		return "prt:" + strconv.FormatUint(uint64(e.Index()), 10) + "@" + strconv.FormatUint(uint64(e.Generation()), 10)
	default:
		return "none"
	}
}
