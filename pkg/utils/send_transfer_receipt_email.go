package utils

import (
	"fmt"
	"html"
	"time"
)

type TransferReceipt struct {
	Reference    string
	Amount       string
	FromWalletID int
	ToWalletID   int
	Description  string
	Date         time.Time
}

func TransferReceiptEmailBody(username string, r TransferReceipt) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Transfer Receipt</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #0a4d3c;
		}
		.header {
			background-color: #0a4d3c;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.content {
			padding: 20px 18px;
		}
		.amount-box {
			background: #f2fdf6;
			border: 1px solid #bfe7cb;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.footer {
			background: #f0f6f2;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>Transfer Berhasil</h1>
			</div>
			<div class="content">
				<p>
					Hi <b>%s</b>,<br><br>
					You moved <b>Rp %s</b> from wallet #%d to wallet #%d.
				</p>

				<div class="amount-box">
					<h3>Rp %s</h3>
					<p>Reference: %s</p>
					<p>Note: %s</p>
					<p>Date: %s</p>
				</div>
			</div>
			<div class="footer">
				&copy; %d Dompet
			</div>
		</div>
	</body>
	</html>
	`,
		html.EscapeString(username),
		r.Amount, r.FromWalletID, r.ToWalletID,
		r.Amount,
		html.EscapeString(r.Reference),
		html.EscapeString(r.Description),
		r.Date.Format("3:04 PM, Jan 2 2006"),
		r.Date.Year(),
	)
}

func (m *Mailer) SendTransferReceiptEmail(to, username string, r TransferReceipt) error {
	subject := fmt.Sprintf("Transfer %s berhasil", r.Reference)
	return m.SendEmail(to, subject, TransferReceiptEmailBody(username, r))
}
