package handlers

import "neatly/services/booking"

// HandlerBundle groups the wired handlers so route registration takes a
// single argument.
type HandlerBundle struct {
	Booking    *BookingHandler
	Contractor *ContractorHandler
	Client     *ClientHandler
	Search     *SearchHandler
	Admin      *AdminHandler
	Pricing    *booking.PricingCalculator
}
