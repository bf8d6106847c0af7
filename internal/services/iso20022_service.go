package services

import (
	"context"
	"database/sql"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/logger"
	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const Pacs008MessageType = "pacs.008.001.08"

// outboundTransfer is a customer's debit row together with the payee it was
// sent to.
type outboundTransfer struct {
	ID            int
	Amount        decimal.Decimal
	Reference     string
	CreatedAt     time.Time
	DebtorAccount string
	DebtorName    string
	CreditorName  string
	CreditorBank  string
	CreditorAcct  string
}

// ISO20022Service renders completed outbound transfers as pacs.008 credit
// transfers for the settlement gateway.
type ISO20022Service struct {
	db       *sql.DB
	currency string
	bic      string
	now      func() time.Time
	log      *zap.Logger
}

func NewISO20022Service(db *sql.DB, currency, bic string) *ISO20022Service {
	return &ISO20022Service{
		db:       db,
		currency: currency,
		bic:      bic,
		now:      nowUTC,
		log:      logger.L().Named("iso20022"),
	}
}

// ExportTransfer builds the pacs.008 message for the caller's transfer row
// txID. Rows of other customers, inbound legs and non-transfer rows read as
// not found.
func (iso *ISO20022Service) ExportTransfer(ctx context.Context, userID, txID int) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	var t outboundTransfer
	err := iso.db.QueryRowContext(ctx, `
		SELECT t.id, t.amount, COALESCE(t.reference, ''), t.created_at, a.account_number,
		       u.first_name || ' ' || u.last_name, COALESCE(b.name, ''), COALESCE(b.bank_name, ''), COALESCE(t.to_account, '')
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN users u ON u.id = a.user_id
		LEFT JOIN beneficiaries b ON b.account_id = t.account_id AND b.account_number = t.to_account
		WHERE t.id = $1 AND a.user_id = $2 AND t.transaction_type = 'transfer' AND t.from_account = a.account_number
		ORDER BY b.id
		LIMIT 1`, txID, userID,
	).Scan(&t.ID, &t.Amount, &t.Reference, &t.CreatedAt, &t.DebtorAccount,
		&t.DebtorName, &t.CreditorName, &t.CreditorBank, &t.CreditorAcct)
	if err != nil {
		return nil, notFoundOr(err, "load transfer", "Transaction not found.")
	}
	if t.CreditorName == "" {
		t.CreditorName = t.CreditorAcct
	}

	doc := iso.CreatePacs008(&t)
	iso.log.Info("[ISO20022] transfer exported", zap.Int("transaction_id", t.ID), zap.String("msg_id", string(doc.GrpHdr.MsgId)))
	return doc, nil
}

// CreatePacs008 creates a single-transaction FIToFICustomerCreditTransfer.
func (iso *ISO20022Service) CreatePacs008(t *outboundTransfer) *pacs_v08.FIToFICustomerCreditTransferV08 {
	msgID := uuid.New().String()
	settlementDate := t.CreatedAt
	txID := common.Max35Text(fmt.Sprintf("TX-%d", t.ID))
	amount := pacs_v08.ActiveCurrencyAndAmount{
		Ccy:   common.ActiveCurrencyCode(iso.currency),
		Value: t.Amount.InexactFloat64(),
	}

	return &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:             common.Max35Text(msgID),
			CreDtTm:           common.ISODateTime(iso.now()),
			NbOfTxs:           "1",
			TtlIntrBkSttlmAmt: &amount,
			IntrBkSttlmDt:     (*common.ISODate)(&settlementDate),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG",
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    &txID,
					EndToEndId: common.Max35Text(truncate(t.Reference, 35)),
					TxId:       &txID,
				},
				IntrBkSttlmAmt: amount,
				IntrBkSttlmDt:  (*common.ISODate)(&settlementDate),
				ChrgBr:         "SLEV",
				DbtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier(iso.bic)}[0],
					},
				},
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(truncate(t.DebtorName, 140))}[0],
				},
				CdtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						ClrSysMmbId: &pacs_v08.ClearingSystemMemberIdentification2{
							MmbId: common.Max35Text(truncate(t.CreditorBank, 35)),
						},
					},
				},
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(truncate(t.CreditorName, 140))}[0],
				},
			},
		},
	}
}

// ConvertToXML converts ISO20022 document to XML string
func (iso *ISO20022Service) ConvertToXML(doc any) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
