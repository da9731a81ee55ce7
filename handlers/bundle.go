// File: handlers/bundle.go
package handlers

import (
	eventRepo "stagelink/database/repository/event"
	"stagelink/services/admin"
	"stagelink/services/booking"
	"stagelink/services/kyc"
	"stagelink/services/messaging"
	"stagelink/services/notification"
	"stagelink/services/payment"
	"stagelink/services/payout"
	"stagelink/services/relay"
	"stagelink/services/storage"
	"stagelink/services/user"
)

// HandlerBundle groups every endpoint's dependencies into one struct that
// main.go assembles and the routes package wires onto the engine.
type HandlerBundle struct {
	UserService         user.UserService
	BookingService      booking.BookingService
	PaymentService      payment.PaymentService
	PayoutService       payout.PayoutService
	MessagingService    messaging.MessagingService
	NotificationService notification.NotificationService
	KYCService          kyc.KYCService
	AdminService        admin.AdminService
	StorageService      storage.StorageService
	EventRepo           eventRepo.EventRepository
	Hub                 *relay.Hub
}
