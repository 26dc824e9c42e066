// Package fulfillment contains the Fulfillment bounded context.
// This context models the order fulfillment pipeline: polling a marketplace
// for orders awaiting shipment, acquiring shipping labels, rendering packing
// slips, printing both documents, and recording which orders are done.
//
// Key concepts:
//   - Order: Value object representing a marketplace order flowing through the pipeline
//   - SeenOrderStore: Port for the durable set of already-fulfilled order IDs
//   - OrderSource / LabelAcquirer / SlipRenderer / PrintSink: Ports for the pipeline steps
//   - Outcome: Per-order result of one pipeline run
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package fulfillment
