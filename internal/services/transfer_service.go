package services

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"dompet_api/internal/models"
	"dompet_api/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTransferOutDescription = "Transfer keluar"
	DefaultTransferInDescription  = "Transfer masuk"

	DefaultTransferOutCategoryID = 11
	DefaultTransferInCategoryID  = 12

	notifyTimeout = 30 * time.Second

	// Amounts are stored as DECIMAL(15,2).
	amountScale            = 2
	maxAmountIntegerDigits = 13
)

type TransferInput struct {
	UserID       int    `json:"user_id" validate:"required,gt=0"`
	FromWalletID int    `json:"from_wallet_id" validate:"required,gt=0"`
	ToWalletID   int    `json:"to_wallet_id" validate:"required,gt=0"`
	Amount       string `json:"amount" validate:"required"`
	Description  string `json:"description" validate:"max=255"`
}

type TransferResult struct {
	Reference    string          `json:"reference"`
	FromWalletID int             `json:"from_wallet_id"`
	ToWalletID   int             `json:"to_wallet_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"-"`
	CreatedAt    time.Time       `json:"-"`
}

type TransferConfig struct {
	OutCategoryID int
	InCategoryID  int
}

type TransferService struct {
	store        Store
	ledger       LedgerReader
	validate     *validator.Validate
	cfg          TransferConfig
	now          func() time.Time
	newReference func(now time.Time) string
	notifiers    []TransferNotifier
	inflight     sync.WaitGroup
}

type Option func(*TransferService)

func WithClock(now func() time.Time) Option {
	return func(s *TransferService) { s.now = now }
}

func WithReferenceGenerator(gen func(now time.Time) string) Option {
	return func(s *TransferService) { s.newReference = gen }
}

func WithNotifiers(n ...TransferNotifier) Option {
	return func(s *TransferService) { s.notifiers = append(s.notifiers, n...) }
}

func NewTransferService(store Store, ledger LedgerReader, cfg TransferConfig, opts ...Option) *TransferService {
	if cfg.OutCategoryID == 0 {
		cfg.OutCategoryID = DefaultTransferOutCategoryID
	}
	if cfg.InCategoryID == 0 {
		cfg.InCategoryID = DefaultTransferInCategoryID
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &TransferService{
		store:    store,
		ledger:   ledger,
		validate: v,
		cfg:      cfg,
		now:      time.Now,
		newReference: func(now time.Time) string {
			return GenerateReference(TransferReferencePrefix, now)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transfer moves amount from one of the user's wallets to another and records
// the expense and income legs under one reference. Nothing is written unless
// every step succeeds. Identical inputs produce distinct transfers.
func (s *TransferService) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	started := time.Now()

	amount, err := s.validateInput(in)
	if err != nil {
		observeTransfer(err, amount, started)
		return nil, err
	}

	result, err := s.execute(ctx, in, amount)
	observeTransfer(err, amount, started)

	log := utils.Logger.WithFields(logrus.Fields{
		"user_id":        in.UserID,
		"from_wallet_id": in.FromWalletID,
		"to_wallet_id":   in.ToWalletID,
		"amount":         amount.String(),
	})
	if err != nil {
		var storage *StorageError
		if errors.As(err, &storage) {
			log.WithError(err).Error("transfer failed")
		} else {
			log.WithField("reason", err.Error()).Info("transfer rejected")
		}
		return nil, err
	}

	log.WithField("reference", result.Reference).Info("transfer completed")
	s.notify(ctx, in.UserID, result)
	return result, nil
}

func (s *TransferService) validateInput(in TransferInput) (decimal.Decimal, error) {
	if err := s.validate.Struct(in); err != nil {
		return decimal.Zero, translateValidation(err)
	}

	amount, parseErr := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if parseErr == nil && !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be greater than 0"}
	}

	if in.FromWalletID == in.ToWalletID {
		return decimal.Zero, &ValidationError{Message: "source and destination must differ"}
	}

	if parseErr != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be a number"}
	}

	// Range and scale are decided on digit counts before any rescaling.
	digits, exp := amount.NumDigits(), int64(amount.Exponent())
	if int64(digits)+exp > maxAmountIntegerDigits {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount is out of range"}
	}
	if -amountScale-exp >= int64(digits) {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount supports at most 2 decimal places"}
	}
	if !amount.Equal(amount.Round(amountScale)) {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount supports at most 2 decimal places"}
	}

	return amount, nil
}

func translateValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: "invalid transfer request"}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " is required"}
	case "gt":
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " must be greater than " + fe.Param()}
	case "max":
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " must be at most " + fe.Param() + " characters"}
	default:
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " is invalid"}
	}
}

func (s *TransferService) execute(ctx context.Context, in TransferInput, amount decimal.Decimal) (*TransferResult, error) {
	now := s.now()
	reference := s.newReference(now)

	outDesc, inDesc := DefaultTransferOutDescription, DefaultTransferInDescription
	if d := strings.TrimSpace(in.Description); d != "" {
		outDesc, inDesc = d, d
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, wallets WalletStore, ledger LedgerStore) error {
		// Source is always locked before destination.
		from, err := wallets.LockWalletForUpdate(ctx, in.UserID, in.FromWalletID)
		if err != nil {
			return storageErr("lock source wallet", err)
		}
		if from == nil {
			return &NotFoundError{Resource: "source wallet", ID: strconv.Itoa(in.FromWalletID)}
		}
		if !from.IsActive() {
			return &ValidationError{Field: "from_wallet_id", Message: "source wallet is inactive"}
		}
		if available := from.Available(); amount.GreaterThan(available) {
			return &InsufficientFundsError{
				WalletID:  from.ID,
				Available: available,
				Requested: amount,
				Credit:    from.IsCredit(),
			}
		}

		to, err := wallets.LockWalletForUpdate(ctx, in.UserID, in.ToWalletID)
		if err != nil {
			return storageErr("lock destination wallet", err)
		}
		if to == nil {
			return &NotFoundError{Resource: "destination wallet", ID: strconv.Itoa(in.ToWalletID)}
		}
		if !to.IsActive() {
			return &ValidationError{Field: "to_wallet_id", Message: "destination wallet is inactive"}
		}

		// Credit balances are stored as non-positive amounts owed; a transfer
		// out of a credit wallet adds to the stored balance.
		newFrom := from.Balance.Sub(amount)
		if from.IsCredit() {
			newFrom = from.Balance.Add(amount)
		}
		newTo := to.Balance.Add(amount)

		if err := wallets.UpdateBalance(ctx, from.ID, in.UserID, newFrom, now); err != nil {
			return storageErr("update source balance", err)
		}
		if err := wallets.UpdateBalance(ctx, to.ID, in.UserID, newTo, now); err != nil {
			return storageErr("update destination balance", err)
		}

		date := now.Format(models.DateLayout)
		legs := []*models.Transaction{
			{
				UserID:      in.UserID,
				Type:        models.TransactionExpense,
				Amount:      amount,
				WalletID:    from.ID,
				CategoryID:  s.cfg.OutCategoryID,
				Description: outDesc,
				Reference:   reference,
				Date:        date,
				CreatedAt:   now,
			},
			{
				UserID:      in.UserID,
				Type:        models.TransactionIncome,
				Amount:      amount,
				WalletID:    to.ID,
				CategoryID:  s.cfg.InCategoryID,
				Description: inDesc,
				Reference:   reference,
				Date:        date,
				CreatedAt:   now,
			},
		}
		for _, leg := range legs {
			id, err := ledger.InsertLedgerEntry(ctx, leg)
			if err != nil {
				return storageErr("insert "+leg.Type+" entry", err)
			}
			leg.ID = id
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, storageErr("commit transfer", err)
	}

	return &TransferResult{
		Reference:    reference,
		FromWalletID: in.FromWalletID,
		ToWalletID:   in.ToWalletID,
		Amount:       amount,
		Description:  outDesc,
		CreatedAt:    now,
	}, nil
}

func isDomainError(err error) bool {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		fundsErr      *InsufficientFundsError
		storage       *StorageError
	)
	return errors.As(err, &validationErr) || errors.As(err, &notFoundErr) ||
		errors.As(err, &fundsErr) || errors.As(err, &storage)
}

func (s *TransferService) notify(ctx context.Context, userID int, result *TransferResult) {
	for _, n := range s.notifiers {
		s.inflight.Add(1)
		go func(n TransferNotifier) {
			defer s.inflight.Done()
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			defer cancel()
			if err := n.TransferCompleted(nctx, userID, result); err != nil {
				notifyErrors.Inc()
				utils.Logger.WithFields(logrus.Fields{
					"reference": result.Reference,
					"error":     err.Error(),
				}).Warn("transfer notification failed")
			}
		}(n)
	}
}

// Wait blocks until in-flight notifications finish.
func (s *TransferService) Wait() {
	s.inflight.Wait()
}

// GetTransfer returns the ledger legs of one of the user's transfers.
func (s *TransferService) GetTransfer(ctx context.Context, userID int, reference string) ([]models.Transaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, &ValidationError{Field: "reference", Message: "reference is required"}
	}
	if s.ledger == nil {
		return nil, storageErr("list transfer legs", errors.New("ledger reader not configured"))
	}

	legs, err := s.ledger.ListByReference(ctx, userID, reference)
	if err != nil {
		return nil, storageErr("list transfer legs", err)
	}
	if len(legs) == 0 {
		return nil, &NotFoundError{Resource: "transfer", ID: reference}
	}
	return legs, nil
}
