package domain

import "github.com/google/uuid"

// Typed UUID wrappers keep entity references from being mixed up at compile
// time. Construct with New<Type>ID or by casting a parsed uuid.UUID at a trust
// boundary.
type (
	UserID      uuid.UUID
	NationID    uuid.UUID
	AuthorityID uuid.UUID
	SchemaID    uuid.UUID
	DocumentID  uuid.UUID
	MetadataID  uuid.UUID
	RequestID   uuid.UUID
	ResponseID  uuid.UUID
)

func NewUserID() UserID           { return UserID(uuid.New()) }
func NewNationID() NationID       { return NationID(uuid.New()) }
func NewAuthorityID() AuthorityID { return AuthorityID(uuid.New()) }
func NewSchemaID() SchemaID       { return SchemaID(uuid.New()) }
func NewDocumentID() DocumentID   { return DocumentID(uuid.New()) }
func NewMetadataID() MetadataID   { return MetadataID(uuid.New()) }
func NewRequestID() RequestID     { return RequestID(uuid.New()) }
func NewResponseID() ResponseID   { return ResponseID(uuid.New()) }

func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id NationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AuthorityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SchemaID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id MetadataID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ResponseID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id NationID) String() string    { return uuid.UUID(id).String() }
func (id AuthorityID) String() string { return uuid.UUID(id).String() }
func (id SchemaID) String() string    { return uuid.UUID(id).String() }
func (id DocumentID) String() string  { return uuid.UUID(id).String() }
func (id MetadataID) String() string  { return uuid.UUID(id).String() }
func (id RequestID) String() string   { return uuid.UUID(id).String() }
func (id ResponseID) String() string  { return uuid.UUID(id).String() }

// MarshalText/UnmarshalText give the ID types transparent JSON behavior.

func (id UserID) MarshalText() ([]byte, error)      { return uuidMarshal(uuid.UUID(id)) }
func (id NationID) MarshalText() ([]byte, error)    { return uuidMarshal(uuid.UUID(id)) }
func (id AuthorityID) MarshalText() ([]byte, error) { return uuidMarshal(uuid.UUID(id)) }
func (id SchemaID) MarshalText() ([]byte, error)    { return uuidMarshal(uuid.UUID(id)) }
func (id DocumentID) MarshalText() ([]byte, error)  { return uuidMarshal(uuid.UUID(id)) }
func (id MetadataID) MarshalText() ([]byte, error)  { return uuidMarshal(uuid.UUID(id)) }
func (id RequestID) MarshalText() ([]byte, error)   { return uuidMarshal(uuid.UUID(id)) }
func (id ResponseID) MarshalText() ([]byte, error)  { return uuidMarshal(uuid.UUID(id)) }

func (id *UserID) UnmarshalText(b []byte) error      { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *NationID) UnmarshalText(b []byte) error    { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *AuthorityID) UnmarshalText(b []byte) error { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *SchemaID) UnmarshalText(b []byte) error    { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *DocumentID) UnmarshalText(b []byte) error  { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *MetadataID) UnmarshalText(b []byte) error  { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *RequestID) UnmarshalText(b []byte) error   { return uuidUnmarshal((*uuid.UUID)(id), b) }
func (id *ResponseID) UnmarshalText(b []byte) error  { return uuidUnmarshal((*uuid.UUID)(id), b) }

func uuidMarshal(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func uuidUnmarshal(dst *uuid.UUID, b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
