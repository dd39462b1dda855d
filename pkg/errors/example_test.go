// Package errors provides examples of structured error handling in idbridge.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/idbridge/pkg/errors"
)

// Example demonstrates basic error creation.
func Example() {
	err := errors.New(errors.ErrorTypeConfig, "baseUrl is required").
		WithDetail("file", "config.json")

	fmt.Println(err.Error())

	// Output:
	// config: baseUrl is required
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.EOF, errors.ErrorTypeConfig, "failed to read config file").
		WithDetail("file", "config.json")

	if errors.IsType(err, errors.ErrorTypeConfig) {
		fmt.Println("This is a configuration error")
	}
	fmt.Println(err)

	// Output:
	// This is a configuration error
	// config: failed to read config file: EOF
}

// ExampleAPI shows that backend failures carry both the code and the message.
func ExampleAPI() {
	err := errors.API(1, "Not authorized")

	fmt.Println(err)
	fmt.Println(errors.IsAPI(err), errors.CodeOf(err))

	// Output:
	// api: API error (1): Not authorized
	// true 1
}

// ExampleTransport shows that transport failures are a subtype of API errors.
func ExampleTransport() {
	err := errors.Transport(502, fmt.Errorf("unexpected status 502 Bad Gateway"))

	fmt.Println(errors.IsAPI(err))
	fmt.Println(errors.IsType(err, errors.ErrorTypeAPI))
	fmt.Println(err)

	// Output:
	// true
	// false
	// transport: HTTP error: unexpected status 502 Bad Gateway
}

// ExampleConnector shows connector errors naming the system and the cause.
func ExampleConnector() {
	err := errors.Connector("ldap", fmt.Errorf("no connector registered"))

	fmt.Println(err)

	// Output:
	// connector: connector error for system 'ldap': no connector registered
}

// ExampleValidation demonstrates single and multiple required fields.
func ExampleValidation() {
	fmt.Println(errors.Validation("name", "person creation"))
	fmt.Println(errors.Validation("uid,name", "person update"))

	// Output:
	// validation: name is required for person creation
	// validation: uid,name are required for person update
}

// ExampleIsType demonstrates checking error types.
func ExampleIsType() {
	idErr := errors.InvalidID("abc")
	wrapped := errors.Wrap(idErr, errors.ErrorTypeInternal, "lookup failed")

	fmt.Printf("Is invalid id: %v\n", errors.IsType(idErr, errors.ErrorTypeInvalidID))
	fmt.Printf("Wrapped error is internal: %v\n", errors.IsType(wrapped, errors.ErrorTypeInternal))
	fmt.Printf("Wrapped error reports invalid id: %v\n", errors.IsType(wrapped, errors.ErrorTypeInvalidID))

	// Output:
	// Is invalid id: true
	// Wrapped error is internal: true
	// Wrapped error reports invalid id: false
}
