package core

import "fmt"

// IdentifierPool hands out small reusable ids. Released ids are reused
// before the pool grows.
type IdentifierPool struct {
	owners []interface{}
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	return &IdentifierPool{
		owners: make([]interface{}, capacity),
	}
}

func (p *IdentifierPool) AcquireNewID(owner interface{}) uint32 {
	length := uint32(len(p.owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return i
		}
	}

	// No free slot, so push one. The id will be length - 1
	p.owners = append(p.owners, owner)
	return uint32(len(p.owners)) - 1
}

func (p *IdentifierPool) ReleaseID(id uint32) error {
	length := uint32(len(p.owners))
	if id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}

	// Just zero out the entry, making it available for use.
	p.owners[id] = nil
	return nil
}

// Owner returns whatever was registered with the id, nil when the id is free.
func (p *IdentifierPool) Owner(id uint32) interface{} {
	if id >= uint32(len(p.owners)) {
		return nil
	}
	return p.owners[id]
}
