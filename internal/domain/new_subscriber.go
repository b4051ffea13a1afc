// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package domain

// ValidationError reports malformed subscriber input. It is safe to
// show Reason to the submitting client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewSubscriber is a fully validated subscription request.
type NewSubscriber struct {
	Email SubscriberEmail
	Name  SubscriberName
}

// ParseNewSubscriber validates the raw form input for a subscription.
// It returns a *ValidationError and leaves storage untouched when any
// field is rejected.
func ParseNewSubscriber(email, name string) (NewSubscriber, error) {
	parsedName, err := ParseSubscriberName(name)
	if err != nil {
		return NewSubscriber{}, err
	}
	parsedEmail, err := ParseSubscriberEmail(email)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Email: parsedEmail, Name: parsedName}, nil
}
