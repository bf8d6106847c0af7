package handlers

import (
	"context"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
	"github.com/stretchr/testify/mock"
)

type MockAuth struct{ mock.Mock }

func (m *MockAuth) Signup(ctx context.Context, req services.SignupRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuth) Signin(ctx context.Context, req services.SigninRequest) (*services.SigninResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.SigninResponse)
	return resp, args.Error(1)
}

func (m *MockAuth) RefreshToken(ctx context.Context, token string) (*services.RefreshResponse, error) {
	args := m.Called(ctx, token)
	resp, _ := args.Get(0).(*services.RefreshResponse)
	return resp, args.Error(1)
}

func (m *MockAuth) Logout(ctx context.Context, claims *services.Claims) {
	m.Called(ctx, claims)
}

func (m *MockAuth) VerifyAccessToken(ctx context.Context, token string) (*services.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*services.Claims)
	return claims, args.Error(1)
}

type MockAccounts struct{ mock.Mock }

func (m *MockAccounts) GetCustomerAccount(ctx context.Context, userID int) (*models.Account, error) {
	args := m.Called(ctx, userID)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *MockAccounts) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *MockAccounts) ListAccounts(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]models.Account)
	return accounts, args.Error(1)
}

func (m *MockAccounts) OpenAccount(ctx context.Context, req services.OpenAccountRequest, actorID int) (*models.Account, error) {
	args := m.Called(ctx, req, actorID)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *MockAccounts) SetKYC(ctx context.Context, id int, verified bool) error {
	return m.Called(ctx, id, verified).Error(0)
}

func (m *MockAccounts) SetStatus(ctx context.Context, id int, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type MockQR struct{ mock.Mock }

func (m *MockQR) AccountQRCode(ctx context.Context, userID int) (*services.AccountQRResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*services.AccountQRResponse)
	return resp, args.Error(1)
}

type MockBeneficiaries struct{ mock.Mock }

func (m *MockBeneficiaries) List(ctx context.Context, userID int, includeInactive bool) ([]models.Beneficiary, error) {
	args := m.Called(ctx, userID, includeInactive)
	list, _ := args.Get(0).([]models.Beneficiary)
	return list, args.Error(1)
}

func (m *MockBeneficiaries) Get(ctx context.Context, userID, id int) (*models.Beneficiary, error) {
	args := m.Called(ctx, userID, id)
	b, _ := args.Get(0).(*models.Beneficiary)
	return b, args.Error(1)
}

func (m *MockBeneficiaries) Create(ctx context.Context, userID int, req services.CreateBeneficiaryRequest) (*models.Beneficiary, error) {
	args := m.Called(ctx, userID, req)
	b, _ := args.Get(0).(*models.Beneficiary)
	return b, args.Error(1)
}

func (m *MockBeneficiaries) Update(ctx context.Context, userID, id int, req services.UpdateBeneficiaryRequest) (*models.Beneficiary, error) {
	args := m.Called(ctx, userID, id, req)
	b, _ := args.Get(0).(*models.Beneficiary)
	return b, args.Error(1)
}

func (m *MockBeneficiaries) Delete(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockTransactions struct{ mock.Mock }

func (m *MockTransactions) Deposit(ctx context.Context, req services.DepositRequest, actorID int) (*services.MovementResult, error) {
	args := m.Called(ctx, req, actorID)
	result, _ := args.Get(0).(*services.MovementResult)
	return result, args.Error(1)
}

func (m *MockTransactions) Withdraw(ctx context.Context, req services.WithdrawRequest, actorID int) (*services.MovementResult, error) {
	args := m.Called(ctx, req, actorID)
	result, _ := args.Get(0).(*services.MovementResult)
	return result, args.Error(1)
}

func (m *MockTransactions) Transfer(ctx context.Context, userID int, req services.TransferRequest) (*services.MovementResult, error) {
	args := m.Called(ctx, userID, req)
	result, _ := args.Get(0).(*services.MovementResult)
	return result, args.Error(1)
}

func (m *MockTransactions) AdminTransfer(ctx context.Context, req services.AdminTransferRequest, actorID int) (*services.TransferResult, error) {
	args := m.Called(ctx, req, actorID)
	result, _ := args.Get(0).(*services.TransferResult)
	return result, args.Error(1)
}

func (m *MockTransactions) ListCustomerTransactions(ctx context.Context, userID int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID)
	entries, _ := args.Get(0).([]models.Transaction)
	return entries, args.Error(1)
}

func (m *MockTransactions) ListAccountTransactions(ctx context.Context, accountID int) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID)
	entries, _ := args.Get(0).([]models.Transaction)
	return entries, args.Error(1)
}

func (m *MockTransactions) ListAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]models.Transaction)
	return entries, args.Error(1)
}

func (m *MockTransactions) Status(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockExporter struct{ mock.Mock }

func (m *MockExporter) ExportTransfer(ctx context.Context, userID, txID int) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	args := m.Called(ctx, userID, txID)
	doc, _ := args.Get(0).(*pacs_v08.FIToFICustomerCreditTransferV08)
	return doc, args.Error(1)
}

func (m *MockExporter) ConvertToXML(doc any) (string, error) {
	args := m.Called(doc)
	return args.String(0), args.Error(1)
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetUser(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUsers) ListCustomers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, userID int, req services.UpdateProfileRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type MockPinger struct{ mock.Mock }

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
