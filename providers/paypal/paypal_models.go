package paypal

import "github.com/shopspring/decimal"

type tokenResponse struct {
	Scope       string `json:"scope"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AppID       string `json:"app_id"`
	ExpiresIn   int64  `json:"expires_in"`
	Nonce       string `json:"nonce"`
}

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type payee struct {
	EmailAddress string `json:"email_address"`
}

type purchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      Money  `json:"amount"`
	Payee       *payee `json:"payee,omitempty"`
}

type applicationContext struct {
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	BrandName  string `json:"brand_name,omitempty"`
	UserAction string `json:"user_action,omitempty"`
}

type orderPayload struct {
	Intent             string              `json:"intent"`
	PurchaseUnits      []purchaseUnit      `json:"purchase_units"`
	ApplicationContext *applicationContext `json:"application_context,omitempty"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type captureDetail struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Links         []Link `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []captureDetail `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (r orderResponse) capture() *Capture {
	capture := &Capture{OrderID: r.ID, Status: r.Status}
	for _, unit := range r.PurchaseUnits {
		if len(unit.Payments.Captures) > 0 {
			capture.CaptureID = unit.Payments.Captures[0].ID
			break
		}
	}
	return capture
}

type payoutAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type payoutItem struct {
	RecipientType string       `json:"recipient_type"`
	Amount        payoutAmount `json:"amount"`
	Receiver      string       `json:"receiver"`
	Note          string       `json:"note,omitempty"`
	SenderItemID  string       `json:"sender_item_id,omitempty"`
}

type senderBatchHeader struct {
	SenderBatchID string `json:"sender_batch_id"`
	EmailSubject  string `json:"email_subject,omitempty"`
	EmailMessage  string `json:"email_message,omitempty"`
}

type payoutPayload struct {
	SenderBatchHeader senderBatchHeader `json:"sender_batch_header"`
	Items             []payoutItem      `json:"items"`
}

type payoutResponse struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
		BatchStatus   string `json:"batch_status"`
	} `json:"batch_header"`
	Links []Link `json:"links"`
}

type errorResponse struct {
	Name             string `json:"name"`
	Message          string `json:"message"`
	DebugID          string `json:"debug_id"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Details          []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}

// OrderRequest is a one-unit checkout order priced in US dollars.
type OrderRequest struct {
	AmountUSD   decimal.Decimal
	ReferenceID string
	Description string
	PayeeEmail  string
	BrandName   string
	ReturnURL   string
	CancelURL   string
}

type Order struct {
	ID          string
	Status      string
	ApprovalURL string
}

type Capture struct {
	OrderID   string
	CaptureID string
	Status    string
}

// PayoutRequest sends AmountUSD to a single PayPal account identified by email.
type PayoutRequest struct {
	SenderBatchID string
	AmountUSD     decimal.Decimal
	Receiver      string
	EmailSubject  string
	EmailMessage  string
	Note          string
}

type Payout struct {
	BatchID string
	Status  string
}
