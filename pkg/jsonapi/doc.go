// Package jsonapi is the wire layer between the harness and the xbe REST
// service, which speaks JSON:API under /v1.
//
// # Conventions
//
//	┌──────────┬────────────────────────────┬──────────────────────────────────┐
//	│ Action   │ Request                    │ Notes                            │
//	├──────────┼────────────────────────────┼──────────────────────────────────┤
//	│ list     │ GET    /v1/<type>          │ page[limit], page[offset],       │
//	│          │                            │ filter[<name>], sort             │
//	│ show     │ GET    /v1/<type>/<id>     │                                  │
//	│ create   │ POST   /v1/<type>          │ data{type,attributes,            │
//	│          │                            │ relationships}                   │
//	│ update   │ PATCH  /v1/<type>/<id>     │ only the changed members         │
//	│ delete   │ DELETE /v1/<type>/<id>     │ 204 No Content                   │
//	└──────────┴────────────────────────────┴──────────────────────────────────┘
//
// Every request carries Accept: application/vnd.api+json and, when a token
// is configured, Authorization: Bearer <token>.
//
// # Polymorphic references
//
// Relationships that may point at several types are written "Type|ID" on the
// command line, e.g. "Broker|123". ParseRef turns that into a
// ResourceIdentifier{Type: "brokers", ID: "123"}; FormatRef does the reverse.
//
// # Retries
//
// GET requests answered with 502, 503 or 504, or failing on the network, are
// retried with exponential backoff (cenkalti/backoff) up to WithMaxTries
// attempts. POST, PATCH and DELETE are sent once: a create whose response was
// lost may still have created the record, and a second POST would create
// another one nobody cleans up. Any other non-2xx
// response is returned at once as an *errors.APIError holding the status and
// the "title: detail" of each error object:
//
//	resp, err := client.Post(ctx, "/v1/customers", doc)
//	if apiErr, ok := srvErrors.AsAPIError(err); ok && apiErr.StatusCode == 422 {
//	    // validation failure, resp.Document.Errors has the details
//	}
package jsonapi
