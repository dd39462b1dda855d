// Package connector provides examples of using the idbridge connectors.
package connector_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	"github.com/ajitpratap0/idbridge/pkg/converter"

	// Import connectors to register them
	_ "github.com/ajitpratap0/idbridge/pkg/connector/itop"
	_ "github.com/ajitpratap0/idbridge/pkg/connector/servicenow"
)

// Example creates a person through the registry against a stub iTop endpoint.
func Example() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":0,"message":"","objects":{"Person::42":{"code":0,"message":"created","class":"Person","key":"42","fields":{"id":"42","name":"Doe","first_name":"John"}}}}`)
	}))
	defer srv.Close()

	cfg := config.NewConfig()
	cfg.BaseURL = srv.URL
	cfg.AuthToken = "secret"

	conn, err := registry.Create("itop", registry.Options{Config: cfg})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	person := converter.FromAttributes(map[string]string{"sn": "Doe", "givenName": "John"})
	result, err := conn.CreatePerson(context.Background(), person)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.ID, result.Record.Name)
	// Output: 42 Doe
}

// Example_listAvailable shows the compiled-in systems.
func Example_listAvailable() {
	fmt.Println(registry.ListAvailable())
	// Output: [itop servicenow]
}
