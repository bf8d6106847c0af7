package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"

	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// AccountQR is the payload a payer scans to register the account as a
// beneficiary.
type AccountQR struct {
	AccountNumber string `json:"accountNumber" example:"4532015112830366"`
	Name          string `json:"name" example:"John Doe"`
	BankName      string `json:"bankName" example:"Ledgerline"`
}

// AccountQRResponse carries the payload and its PNG rendering.
// @Description Account QR code
type AccountQRResponse struct {
	Payload AccountQR `json:"payload"`
	Image   string    `json:"image"` // base64 PNG
}

type QRService struct {
	accounts *AccountService
	bankName string
}

func NewQRService(accounts *AccountService, bankName string) *QRService {
	return &QRService{accounts: accounts, bankName: bankName}
}

// AccountQRCode renders the caller's account details as a QR code.
func (s *QRService) AccountQRCode(ctx context.Context, userID int) (*AccountQRResponse, error) {
	account, err := s.accounts.GetCustomerAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload := AccountQR{
		AccountNumber: account.AccountNumber,
		Name:          account.User.FirstName + " " + account.User.LastName,
		BankName:      s.bankName,
	}
	image, err := encodeQR(payload)
	if err != nil {
		return nil, internalError("render qr code", err)
	}
	return &AccountQRResponse{Payload: payload, Image: image}, nil
}

func encodeQR(payload any) (string, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	qr, err := qrcode.New(string(content), qrcode.Medium)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrImageSize)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
