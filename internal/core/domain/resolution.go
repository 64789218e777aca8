package domain

// ResolutionContext carries everything the account resolver may consult when
// picking the concrete account for a transaction leg. Optional fields are nil
// when the originating document does not supply them; each resolution rule
// inspects only the fields it cares about.
type ResolutionContext struct {
	OrganizationID    string
	TransactionType   string
	AccountTypeTag    string
	Side              EntrySide
	ProductID         *string
	PartyID           *string
	RoleTypeID        *string
	PaymentID         *string
	InvoiceItemTypeID *string
	FixedAssetID      *string
	FixedAssetTypeID  *string
	VarianceReasonID  *string
}

// PaymentAccountInfo is the slice of a payment document the resolver's
// payment-method rule consumes: an optional explicit override plus the keys
// for the method / card-type / method-type mapping tables.
type PaymentAccountInfo struct {
	PaymentID           string
	OverrideAccountID   *string
	PaymentMethodID     *string
	CreditCardTypeID    *string
	PaymentMethodTypeID string
}

// FixedAssetAccounts is one row of the fixed-asset depreciation mapping,
// keyed either by a specific asset or by an asset type. The credit side of a
// depreciation leg maps to the accumulated-depreciation account, the debit
// side to the depreciation-expense account.
type FixedAssetAccounts struct {
	AccumulatedDepreciationAccountID string
	DepreciationExpenseAccountID     string
}

// AccountingPreferences are the per-organization settings this core consumes:
// the base currency entries convert into, whether accounting is enabled at
// all, and the error journal (if any) that absorbs failed postings.
type AccountingPreferences struct {
	OrganizationID    string  `json:"organizationID"`
	BaseCurrencyCode  string  `json:"baseCurrencyCode"`
	AccountingEnabled bool    `json:"accountingEnabled"`
	ErrorJournalID    *string `json:"errorJournalID"`
	CogsMethod        string  `json:"cogsMethod"`
}
