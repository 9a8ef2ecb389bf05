package services

import (
	"context"
	"fmt"

	"dompet_api/internal/models"
	"dompet_api/pkg/utils"
)

type UserDirectory interface {
	// UserContact returns nil, nil for an unknown user.
	UserContact(ctx context.Context, userID int) (*models.UserContact, error)
}

type ReceiptMailer interface {
	SendTransferReceiptEmail(to, username string, r utils.TransferReceipt) error
}

// ReceiptNotifier emails the user a receipt for each completed transfer.
type ReceiptNotifier struct {
	users  UserDirectory
	mailer ReceiptMailer
}

func NewReceiptNotifier(users UserDirectory, mailer ReceiptMailer) *ReceiptNotifier {
	return &ReceiptNotifier{users: users, mailer: mailer}
}

func (n *ReceiptNotifier) TransferCompleted(ctx context.Context, userID int, result *TransferResult) error {
	contact, err := n.users.UserContact(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user %d: %w", userID, err)
	}
	if contact == nil || contact.Email == "" {
		return nil
	}

	return n.mailer.SendTransferReceiptEmail(contact.Email, contact.Username, utils.TransferReceipt{
		Reference:    result.Reference,
		Amount:       result.Amount.StringFixed(2),
		FromWalletID: result.FromWalletID,
		ToWalletID:   result.ToWalletID,
		Description:  result.Description,
		Date:         result.CreatedAt,
	})
}
