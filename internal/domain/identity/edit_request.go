package identity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EditRequestStatus represents the lifecycle state of an edit request
type EditRequestStatus string

const (
	EditRequestStatusPending  EditRequestStatus = "pending"
	EditRequestStatusApproved EditRequestStatus = "approved"
	EditRequestStatusRejected EditRequestStatus = "rejected"
)

// IsValid checks if the status is a known edit request status
func (s EditRequestStatus) IsValid() bool {
	switch s {
	case EditRequestStatusPending, EditRequestStatusApproved, EditRequestStatusRejected:
		return true
	}
	return false
}

// EditRequestEntityType identifies the kind of record an edit request targets
type EditRequestEntityType string

const (
	EditRequestEntityTruck    EditRequestEntityType = "truck"
	EditRequestEntityDriver   EditRequestEntityType = "driver"
	EditRequestEntityTrip     EditRequestEntityType = "trip"
	EditRequestEntityInvoice  EditRequestEntityType = "invoice"
	EditRequestEntityPayment  EditRequestEntityType = "payment"
	EditRequestEntityExpense  EditRequestEntityType = "expense"
	EditRequestEntityCustomer EditRequestEntityType = "customer"
)

// IsValid checks if the entity type is supported
func (t EditRequestEntityType) IsValid() bool {
	switch t {
	case EditRequestEntityTruck, EditRequestEntityDriver, EditRequestEntityTrip,
		EditRequestEntityInvoice, EditRequestEntityPayment, EditRequestEntityExpense,
		EditRequestEntityCustomer:
		return true
	}
	return false
}

// RequestedChanges holds the field changes a staff member asks for,
// stored as JSONB. The system never applies them automatically.
type RequestedChanges map[string]string

// Value implements driver.Valuer for JSONB storage
func (rc RequestedChanges) Value() (driver.Value, error) {
	if rc == nil {
		return "{}", nil
	}
	return json.Marshal(rc)
}

// Scan implements sql.Scanner for JSONB storage
func (rc *RequestedChanges) Scan(value interface{}) error {
	if value == nil {
		*rc = RequestedChanges{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RequestedChanges: unsupported type")
	}

	if len(bytes) == 0 {
		*rc = RequestedChanges{}
		return nil
	}

	return json.Unmarshal(bytes, rc)
}

// EditRequest is a staff-submitted, non-self-applying request for a
// privileged user to change a record. Approval does not mutate the target;
// the approver performs the edit out of band.
type EditRequest struct {
	shared.OrgAggregateRoot
	EntityType EditRequestEntityType
	EntityID   uuid.UUID
	Changes    RequestedChanges
	Note       string
	Status     EditRequestStatus
	ResolvedBy *uuid.UUID
	ResolvedAt *time.Time
	Resolution string
}

// NewEditRequest creates a pending edit request
func NewEditRequest(organizationID, requesterID uuid.UUID, entityType EditRequestEntityType, entityID uuid.UUID, changes RequestedChanges, note string) (*EditRequest, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type for edit request")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID cannot be empty")
	}
	if len(changes) == 0 {
		return nil, shared.NewDomainError("INVALID_CHANGES", "Edit request must describe at least one change")
	}

	er := &EditRequest{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		EntityType:       entityType,
		EntityID:         entityID,
		Changes:          changes,
		Note:             strings.TrimSpace(note),
		Status:           EditRequestStatusPending,
	}
	er.SetCreatedBy(requesterID)

	er.AddDomainEvent(NewEditRequestCreatedEvent(er))

	return er, nil
}

// Approve marks the request as approved by the given user
func (er *EditRequest) Approve(resolverID uuid.UUID, resolution string) error {
	return er.resolve(EditRequestStatusApproved, resolverID, resolution)
}

// Reject marks the request as rejected by the given user
func (er *EditRequest) Reject(resolverID uuid.UUID, resolution string) error {
	return er.resolve(EditRequestStatusRejected, resolverID, resolution)
}

func (er *EditRequest) resolve(status EditRequestStatus, resolverID uuid.UUID, resolution string) error {
	if er.Status != EditRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Edit request has already been resolved")
	}
	if resolverID == uuid.Nil {
		return shared.NewDomainError("INVALID_RESOLVER", "Resolver ID cannot be empty")
	}

	now := time.Now()
	er.Status = status
	er.ResolvedBy = &resolverID
	er.ResolvedAt = &now
	er.Resolution = strings.TrimSpace(resolution)
	er.UpdatedAt = now
	er.IncrementVersion()

	return nil
}

// IsPending returns true while the request awaits resolution
func (er *EditRequest) IsPending() bool {
	return er.Status == EditRequestStatusPending
}
