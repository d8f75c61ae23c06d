package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

var purchaseRowColumns = []string{"id", "customer_id", "number", "status", "business_id", "amount", "points", "uploaded_at", "updated_at"}

func TestPurchaseRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &purchaseRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO purchases").WithArgs(int64(1), "79927398713", model.PurchaseStatusNew).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "status", "uploaded_at", "updated_at"}).AddRow(int64(10), model.PurchaseStatusNew, now, now))
	p, created, err := repo.Create(context.Background(), 1, "79927398713")
	if err != nil || !created || p.ID != 10 || p.CustomerID != 1 {
		t.Fatalf("unexpected result: purchase=%+v created=%v err=%v", p, created, err)
	}

	mock.ExpectQuery("INSERT INTO purchases").WithArgs(int64(1), "79927398713", model.PurchaseStatusNew).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM purchases WHERE number=").WithArgs("79927398713").WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).AddRow(int64(10), int64(1), "79927398713", model.PurchaseStatusProcessing, nil, nil, nil, now, now))
	p, created, err = repo.Create(context.Background(), 1, "79927398713")
	if err != nil || created || p.Status != model.PurchaseStatusProcessing {
		t.Fatalf("unexpected result: purchase=%+v created=%v err=%v", p, created, err)
	}

	mock.ExpectQuery("INSERT INTO purchases").WithArgs(int64(1), "79927398713", model.PurchaseStatusNew).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM purchases WHERE number=").WithArgs("79927398713").WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).AddRow(int64(11), int64(2), "79927398713", model.PurchaseStatusNew, nil, nil, nil, now, now))
	if _, _, err := repo.Create(context.Background(), 1, "79927398713"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO purchases").WithArgs(int64(1), "79927398713", model.PurchaseStatusNew).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM purchases WHERE number=").WithArgs("79927398713").WillReturnError(errors.New("lookup"))
	if _, _, err := repo.Create(context.Background(), 1, "79927398713"); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("INSERT INTO purchases").WithArgs(int64(1), "79927398713", model.PurchaseStatusNew).WillReturnError(errors.New("insert"))
	if _, _, err := repo.Create(context.Background(), 1, "79927398713"); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestPurchaseRepositoryGetAndList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &purchaseRepository{storage: storage}

	now := time.Now()
	amount := "42.50"
	points := int64(43)
	business := int64(9)
	mock.ExpectQuery("FROM purchases WHERE number=").WithArgs("num").WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).AddRow(int64(1), int64(2), "num", model.PurchaseStatusProcessed, &business, &amount, &points, now, now))
	p, err := repo.GetByNumber(context.Background(), "num")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Amount == nil || !p.Amount.Equal(decimal.RequireFromString("42.5")) || p.Points == nil || *p.Points != 43 || *p.BusinessID != 9 {
		t.Fatalf("unexpected purchase: %+v", p)
	}

	mock.ExpectQuery("FROM purchases WHERE number=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByNumber(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM purchases WHERE customer_id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).
			AddRow(int64(1), int64(1), "1", model.PurchaseStatusNew, nil, nil, nil, now, now).
			AddRow(int64(2), int64(1), "2", model.PurchaseStatusInvalid, nil, nil, nil, now, now),
	)
	list, err := repo.ListByCustomer(context.Background(), 1)
	if err != nil || len(list) != 2 || list[1].Status != model.PurchaseStatusInvalid {
		t.Fatalf("unexpected result: %v err=%v", list, err)
	}

	mock.ExpectQuery("FROM purchases WHERE customer_id=").WithArgs(int64(2)).WillReturnError(errors.New("query"))
	if _, err := repo.ListByCustomer(context.Background(), 2); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM purchases WHERE customer_id=").WithArgs(int64(3)).WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).AddRow("bad", int64(1), "2", model.PurchaseStatusNew, nil, nil, nil, now, now),
	)
	if _, err := repo.ListByCustomer(context.Background(), 3); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("FROM purchases WHERE customer_id=").WithArgs(int64(4)).WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns),
	)
	list, err = repo.ListByCustomer(context.Background(), 4)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty result, got %v err=%v", list, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestPurchaseRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &purchaseRepository{storage: storage}

	if _, err := repo.ListByCustomer(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestSelectBatchForProcessing(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &purchaseRepository{storage: storage}

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(5).WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).
			AddRow(int64(1), int64(1), "1", model.PurchaseStatusNew, nil, nil, nil, now, now).
			AddRow(int64(2), int64(2), "2", model.PurchaseStatusProcessing, nil, nil, nil, now, now),
	)
	mock.ExpectExec("UPDATE purchases SET status='PROCESSING'").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	purchases, err := repo.SelectBatchForProcessing(context.Background(), 5)
	if err != nil || len(purchases) != 2 {
		t.Fatalf("unexpected result: %v err=%v", purchases, err)
	}
	for _, p := range purchases {
		if p.Status != model.PurchaseStatusProcessing {
			t.Fatalf("expected processing status, got %+v", p)
		}
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnRows(pgxmockv3.NewRows(purchaseRowColumns))
	mock.ExpectCommit()
	purchases, err = repo.SelectBatchForProcessing(context.Background(), 1)
	if err != nil || len(purchases) != 0 {
		t.Fatalf("expected empty slice: %v err=%v", purchases, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForProcessing(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).AddRow("bad", int64(1), "1", model.PurchaseStatusNew, nil, nil, nil, now, now),
	)
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForProcessing(context.Background(), 1); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnRows(
		pgxmockv3.NewRows(purchaseRowColumns).AddRow(int64(1), int64(1), "1", model.PurchaseStatusNew, nil, nil, nil, now, now),
	)
	mock.ExpectExec("UPDATE purchases SET status='PROCESSING'").WithArgs(int64(1)).WillReturnError(errors.New("update"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForProcessing(context.Background(), 1); err == nil {
		t.Fatal("expected update error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestSelectBatchForProcessingRowsError(t *testing.T) {
	rows := &errorRows{err: errors.New("rows err")}
	storage := &Storage{pool: &rowsErrorTxPool{tx: &rowsErrorTx{rows: rows}}}
	repo := &purchaseRepository{storage: storage}

	if _, err := repo.SelectBatchForProcessing(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestPurchaseRepositoryComplete(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &purchaseRepository{storage: storage}

	amount := decimal.RequireFromString("149.50")
	amountText := "149.5"
	points := int64(150)
	business := int64(3)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE purchases SET status=").WithArgs(model.PurchaseStatusProcessed, &amountText, &points, &business, int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"customer_id", "number"}).AddRow(int64(7), "79927398713"))
	mock.ExpectQuery("INSERT INTO loyalty_transactions").
		WithArgs(int64(7), &business, int64(150), "Purchase 79927398713", model.TransactionTypeAccrual).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()
	err := repo.Complete(context.Background(), 1, model.PurchaseCompletion{
		Status: model.PurchaseStatusProcessed, Amount: &amount, Points: 150, BusinessID: &business,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE purchases SET status=").WithArgs(model.PurchaseStatusInvalid, (*string)(nil), (*int64)(nil), (*int64)(nil), int64(2)).
		WillReturnRows(pgxmockv3.NewRows([]string{"customer_id", "number"}).AddRow(int64(7), "2"))
	mock.ExpectCommit()
	if err := repo.Complete(context.Background(), 2, model.PurchaseCompletion{Status: model.PurchaseStatusInvalid}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zeroAmount := decimal.Zero
	zeroText := "0"
	zero := int64(0)
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE purchases SET status=").WithArgs(model.PurchaseStatusProcessed, &zeroText, &zero, (*int64)(nil), int64(3)).
		WillReturnRows(pgxmockv3.NewRows([]string{"customer_id", "number"}).AddRow(int64(7), "3"))
	mock.ExpectCommit()
	if err := repo.Complete(context.Background(), 3, model.PurchaseCompletion{Status: model.PurchaseStatusProcessed, Amount: &zeroAmount}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE purchases SET status=").WithArgs(model.PurchaseStatusInvalid, (*string)(nil), (*int64)(nil), (*int64)(nil), int64(4)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	if err := repo.Complete(context.Background(), 4, model.PurchaseCompletion{Status: model.PurchaseStatusInvalid}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE purchases SET status=").WithArgs(model.PurchaseStatusProcessed, &amountText, &points, &business, int64(5)).
		WillReturnRows(pgxmockv3.NewRows([]string{"customer_id", "number"}).AddRow(int64(7), "5"))
	mock.ExpectQuery("INSERT INTO loyalty_transactions").
		WithArgs(int64(7), &business, int64(150), "Purchase 5", model.TransactionTypeAccrual).
		WillReturnError(errors.New("insert"))
	mock.ExpectRollback()
	err = repo.Complete(context.Background(), 5, model.PurchaseCompletion{
		Status: model.PurchaseStatusProcessed, Amount: &amount, Points: 150, BusinessID: &business,
	})
	if err == nil {
		t.Fatal("expected insert error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
