// Package services implements the driving ports on top of the driven ones.
// Services hold the business rules: keyword retrieval with its cache,
// scenario comparison, ingestion scheduling and document extraction. They
// talk to storage and model providers only through port interfaces.
package services
