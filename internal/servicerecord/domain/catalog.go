package domain

import "strings"

type ServiceType string

const (
	ServiceGeneralPestControl ServiceType = "General Pest Control"
	ServiceTermiteTreatment   ServiceType = "Termite Treatment"
	ServiceRodentControl      ServiceType = "Rodent Control"
	ServiceMosquitoControl    ServiceType = "Mosquito Control"
	ServiceCockroachTreatment ServiceType = "Cockroach Treatment"
	ServiceAntControl         ServiceType = "Ant Control"
	ServiceOther              ServiceType = "Other"
)

var Services = []ServiceType{
	ServiceGeneralPestControl,
	ServiceTermiteTreatment,
	ServiceRodentControl,
	ServiceMosquitoControl,
	ServiceCockroachTreatment,
	ServiceAntControl,
	ServiceOther,
}

func ParseService(value string) (ServiceType, error) {
	value = strings.TrimSpace(value)
	for _, service := range Services {
		if strings.EqualFold(value, string(service)) {
			return service, nil
		}
	}
	return "", ErrInvalidService
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentPending      PaymentMethod = "Pending"
)

var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentUPI,
	PaymentBankTransfer,
	PaymentCreditCard,
	PaymentPending,
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	value = strings.TrimSpace(value)
	for _, method := range PaymentMethods {
		if strings.EqualFold(value, string(method)) {
			return method, nil
		}
	}
	return "", ErrInvalidPaymentMethod
}
