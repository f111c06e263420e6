// Package api holds the JSON wire types exchanged between the shopkeeper
// client and the provisioning backend.
//
// Field names follow the backend's camelCase JSON contract. Both the HTTP
// client (internal/client/client) and the development backend
// (internal/server) encode and decode these types, so they stay free of
// behavior beyond small helpers.
package api
