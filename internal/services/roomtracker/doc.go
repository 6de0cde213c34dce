// Package roomtracker keeps the encryption configuration of rooms the
// device participates in.
//
// Prepare is handed the joined room ids at startup and reads each room's
// m.room.encryption state once. Rooms whose state cannot be read are
// recorded with an empty configuration; failures are logged, never returned,
// so one bad room cannot block startup.
package roomtracker
