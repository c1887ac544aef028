package transport

import "fmt"

// State is the lifecycle state of the pub/sub connection.
//
// Expected transitions:
//
//	Uninitialized -> Probing            (Connect called)
//	Probing       -> Connecting         (probe succeeded)
//	Probing       -> Disconnected       (probe failed, no dial attempted)
//	Connecting    -> Connected          (WebSocket handshake completed)
//	Connecting    -> Disconnected       (dial failed)
//	Connected     -> Disconnected       (transport-level drop)
//	Connected     -> Closed             (deliberate teardown)
//	Disconnected  -> Probing            (bounded automatic retry)
//	Disconnected  -> Failed             (retry budget exhausted)
//
// Failed and Closed are terminal: the process continues in local-only mode
// for the remainder of the session.
type State int

const (
	StateUninitialized State = iota
	StateProbing
	StateConnecting
	StateConnected
	StateDisconnected
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateProbing:
		return "Probing"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateDisconnected:
		return "Disconnected"
	case StateFailed:
		return "Failed"
	case StateClosed:
		return "Closed"
	default:
		return "InvalidState"
	}
}

func (s State) validateTransitionTo(newState State) error {
	switch s {
	case StateUninitialized:
		if newState == StateProbing || newState == StateClosed {
			return nil
		}
	case StateProbing:
		switch newState {
		case StateConnecting, StateDisconnected, StateClosed:
			return nil
		}
	case StateConnecting:
		switch newState {
		case StateConnected, StateDisconnected, StateClosed:
			return nil
		}
	case StateConnected:
		switch newState {
		case StateDisconnected, StateClosed:
			return nil
		}
	case StateDisconnected:
		switch newState {
		case StateProbing, StateFailed, StateClosed:
			return nil
		}
	case StateFailed:
		if newState == StateClosed {
			return nil
		}
	}

	return fmt.Errorf("invalid state transition from %v to %v", s, newState)
}
