package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// SchemaVersion is the only message and model schema version in use.
const SchemaVersion uint32 = 1

// Metadata is carried by every message and model. It allows the
// serialization format to evolve.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *Metadata) Reset() { *m = Metadata{} }
func (m *Metadata) String() string { return proto.CompactTextString(m) }
func (*Metadata) ProtoMessage() {}

// Validate returns an error if the schema version is not supported.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMsg, "missing metadata")
	}
	if m.Schema != SchemaVersion {
		return errors.Wrapf(errors.ErrMsg, "unsupported schema version %d", m.Schema)
	}
	return nil
}

// NewMetadata returns metadata of the current schema version.
func NewMetadata() *Metadata {
	return &Metadata{Schema: SchemaVersion}
}

func init() {
	proto.RegisterType((*Metadata)(nil), "ledger.Metadata")
}
