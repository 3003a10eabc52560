package model

import "quotely-backend/domain/keys"

// ID accessors recover the entity id from the stored sort key, the only
// place the id lives on disk.

func (o *Organization) ID() string  { return keys.OrgIDFromPK(o.PK) }
func (f *ProductFamily) ID() string { return keys.IDFromSK(f.SK) }
func (m *MasterItem) ID() string    { return keys.IDFromSK(m.SK) }
func (p *Product) ID() string       { return keys.IDFromSK(p.SK) }
func (q *Quotation) ID() string     { return keys.IDFromSK(q.SK) }
func (c *Customer) ID() string      { return keys.IDFromSK(c.SK) }
func (t *PDFTemplate) ID() string   { return keys.IDFromSK(t.SK) }

// OrgID returns the owning tenant of any tenant-scoped record.
func (q *Quotation) OrgID() string { return keys.OrgIDFromPK(q.PK) }
func (p *Product) OrgID() string   { return keys.OrgIDFromPK(p.PK) }
