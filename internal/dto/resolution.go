package dto

import (
	"github.com/finpost/glcore/internal/core/domain"
)

// ResolveAccountRequest carries the resolution context for a single leg.
type ResolveAccountRequest struct {
	OrganizationID    string           `json:"organizationID" binding:"required"`
	TransactionType   string           `json:"transactionType" binding:"required"`
	AccountTypeTag    string           `json:"accountTypeTag"`
	Side              domain.EntrySide `json:"side" binding:"required,debitorcredit"`
	ProductID         *string          `json:"productID"`
	PartyID           *string          `json:"partyID"`
	RoleTypeID        *string          `json:"roleTypeID"`
	PaymentID         *string          `json:"paymentID"`
	InvoiceItemTypeID *string          `json:"invoiceItemTypeID"`
	FixedAssetID      *string          `json:"fixedAssetID"`
	FixedAssetTypeID  *string          `json:"fixedAssetTypeID"`
	VarianceReasonID  *string          `json:"varianceReasonID"`
}

// ToResolutionContext converts the request to the domain resolution context.
func (r ResolveAccountRequest) ToResolutionContext() domain.ResolutionContext {
	return domain.ResolutionContext{
		OrganizationID:    r.OrganizationID,
		TransactionType:   r.TransactionType,
		AccountTypeTag:    r.AccountTypeTag,
		Side:              r.Side,
		ProductID:         r.ProductID,
		PartyID:           r.PartyID,
		RoleTypeID:        r.RoleTypeID,
		PaymentID:         r.PaymentID,
		InvoiceItemTypeID: r.InvoiceItemTypeID,
		FixedAssetID:      r.FixedAssetID,
		FixedAssetTypeID:  r.FixedAssetTypeID,
		VarianceReasonID:  r.VarianceReasonID,
	}
}

// ResolveAccountResponse is the resolved account id.
type ResolveAccountResponse struct {
	AccountID string `json:"accountID"`
}

// ClassifyResponse is the transitive closure of one class tree walk.
type ClassifyResponse struct {
	RootClassID string   `json:"rootClassID"`
	ClassIDs    []string `json:"classIDs"`
}

// ClosePeriodRequest identifies the period to close.
type ClosePeriodRequest struct {
	OrganizationID string `json:"organizationID" binding:"required"`
}
