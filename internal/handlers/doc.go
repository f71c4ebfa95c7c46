// Package handlers implements the JSON:API endpoints of the sandbox service.
//
// Handlers parse the request, delegate to services.RecordService and map
// its errors to JSON:API error documents. They hold no state of their own.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - page[limit] / page[offset] / filter[...] / sort parsing      │
//	│  - JSON:API document decoding                                   │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Record-to-resource conversion                                │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  RecordService                                                  │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Endpoints
//
//	GET    /v1/:resource        ListRecords    200, meta.record-count
//	POST   /v1/:resource        CreateRecord   201
//	GET    /v1/:resource/:id    GetRecord      200
//	PATCH  /v1/:resource/:id    UpdateRecord   200
//	DELETE /v1/:resource/:id    DeleteRecord   204
//
// # Error Mapping
//
//	┌──────────────────────────────┬────────┬─────────────────────────┐
//	│ Service error                │ Status │ Title                   │
//	├──────────────────────────────┼────────┼─────────────────────────┤
//	│ ValidationError              │ 422    │ Record Invalid (each)   │
//	│ ResourceNotFoundError        │ 404    │ Not Found               │
//	│ ConflictError                │ 409    │ Conflict                │
//	│ UnauthorizedError            │ 401    │ Not Authorized          │
//	│ UsageError                   │ 400    │ Bad Request             │
//	│ anything else                │ 500    │ Internal Server Error   │
//	└──────────────────────────────┴────────┴─────────────────────────┘
//
// The default page size is 25 and page[limit] is capped at 500.
package handlers
