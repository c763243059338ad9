package telnet

// qState is one of the six RFC 1143 Q-Method states, tracked independently
// for each side (us/him) of a single option.
type qState int

const (
	qNo qState = iota
	qYes
	qWantNoEmpty
	qWantNoOpposite
	qWantYesEmpty
	qWantYesOpposite
)

// optionState holds both sides' Q-Method state and the policy governing
// them for a single option.
type optionState struct {
	us     qState
	him    qState
	policy Policy
}

// Sender is the minimal capability the negotiation Registry needs from a
// connection: the ability to emit a 3-byte negotiation frame. Connection
// implements this via its Writer.
type Sender interface {
	SendNegotiation(action Action, opt Option) error
}

// Registry is the Q-Method negotiation state machine for an entire
// connection: one optionState per Option ever referenced, created lazily
// with both sides defaulting to qNo and the policy defaulting to
// fully-disallowed. It implements RFC 1143 section 7.
type Registry struct {
	options map[Option]*optionState
	sender  Sender
	events  *queue[Event]
}

// NewRegistry creates a Registry that writes negotiation responses through
// sender and queues resulting higher-level events onto events.
func NewRegistry(sender Sender, events *queue[Event]) *Registry {
	return &Registry{
		options: make(map[Option]*optionState),
		sender:  sender,
		events:  events,
	}
}

// SetPolicy installs (or replaces) the local/remote-allowed policy for opt.
// It does not disturb any negotiation already in flight.
func (r *Registry) SetPolicy(opt Option, policy Policy) {
	r.entry(opt).policy = policy
}

// Policy returns the currently installed policy for opt, or the
// fully-disallowed zero value if none was set.
func (r *Registry) Policy(opt Option) Policy {
	return r.entry(opt).policy
}

func (r *Registry) entry(opt Option) *optionState {
	e, ok := r.options[opt]
	if !ok {
		e = &optionState{}
		r.options[opt] = e
	}
	return e
}

func (r *Registry) send(action Action, opt Option) {
	if err := r.sender.SendNegotiation(action, opt); err != nil {
		r.events.Queue(errorEvent(ErrSubnegotiationWrite, opt, err.Error()))
	}
}

// HandleNegotiation routes a received WILL/WONT/DO/DONT through the
// Q-Method tables, sending any required response and queuing any resulting
// RemoteEnabled/RemoteDisabled/LocalEnabled/LocalDisabled event.
func (r *Registry) HandleNegotiation(action Action, opt Option) {
	switch action {
	case Will:
		r.receiveEnable(false, opt)
	case Wont:
		r.receiveDisable(false, opt)
	case Do:
		r.receiveEnable(true, opt)
	case Dont:
		r.receiveDisable(true, opt)
	}
}

func sideState(e *optionState, isUs bool) qState {
	if isUs {
		return e.us
	}
	return e.him
}

func setSideState(e *optionState, isUs bool, s qState) {
	if isUs {
		e.us = s
	} else {
		e.him = s
	}
}

func enabledEventFor(isUs bool) EventKind {
	if isUs {
		return EventLocalEnabled
	}
	return EventRemoteEnabled
}

func disabledEventFor(isUs bool) EventKind {
	if isUs {
		return EventLocalDisabled
	}
	return EventRemoteDisabled
}

// activateAction is the outbound verb that accepts activation on the given
// side: DO accepts a remote WILL, WILL accepts a local DO request.
func activateAction(isUs bool) Action {
	if isUs {
		return Will
	}
	return Do
}

func deactivateAction(isUs bool) Action {
	if isUs {
		return Wont
	}
	return Dont
}

// receiveEnable implements receive_will (isUs=false, triggered by an
// incoming WILL) and receive_do (isUs=true, triggered by an incoming DO).
func (r *Registry) receiveEnable(isUs bool, opt Option) {
	e := r.entry(opt)
	allowed := e.policy.RemoteAllowed
	if isUs {
		allowed = e.policy.LocalAllowed
	}

	switch sideState(e, isUs) {
	case qNo:
		if allowed {
			setSideState(e, isUs, qYes)
			r.send(activateAction(isUs), opt)
			r.events.Queue(optionStateEvent(enabledEventFor(isUs), opt))
		} else {
			r.send(deactivateAction(isUs), opt)
		}
	case qYes:
		// already active, ignore per RFC 1143
	case qWantNoEmpty:
		r.events.Queue(errorEvent(ErrNegotiation, opt, "DONT/WONT answered by WILL/DO"))
		setSideState(e, isUs, qNo)
		r.events.Queue(optionStateEvent(disabledEventFor(isUs), opt))
	case qWantNoOpposite:
		r.events.Queue(errorEvent(ErrNegotiation, opt, "DONT/WONT answered by WILL/DO"))
		setSideState(e, isUs, qYes)
		r.events.Queue(optionStateEvent(enabledEventFor(isUs), opt))
	case qWantYesEmpty:
		setSideState(e, isUs, qYes)
		r.events.Queue(optionStateEvent(enabledEventFor(isUs), opt))
	case qWantYesOpposite:
		setSideState(e, isUs, qWantNoEmpty)
		r.send(deactivateAction(isUs), opt)
	}
}

// receiveDisable implements receive_wont (isUs=false) and receive_dont
// (isUs=true).
func (r *Registry) receiveDisable(isUs bool, opt Option) {
	e := r.entry(opt)

	switch sideState(e, isUs) {
	case qNo:
		// already inactive, ignore
	case qYes:
		setSideState(e, isUs, qNo)
		r.send(deactivateAction(isUs), opt)
		r.events.Queue(optionStateEvent(disabledEventFor(isUs), opt))
	case qWantNoEmpty:
		setSideState(e, isUs, qNo)
		r.events.Queue(optionStateEvent(disabledEventFor(isUs), opt))
	case qWantNoOpposite:
		setSideState(e, isUs, qWantYesEmpty)
		r.send(activateAction(isUs), opt)
	case qWantYesEmpty, qWantYesOpposite:
		setSideState(e, isUs, qNo)
		r.events.Queue(optionStateEvent(disabledEventFor(isUs), opt))
	}
}

// AskEnableRemote requests that the remote side activate opt (sends DO).
// It is the local-initiation half of the Q-Method, mirrored by
// AskEnableLocal for this side's own activation (sends WILL).
func (r *Registry) AskEnableRemote(opt Option) error {
	return r.askEnable(false, opt)
}

// AskDisableRemote requests that the remote side deactivate opt (sends
// DONT).
func (r *Registry) AskDisableRemote(opt Option) error {
	return r.askDisable(false, opt)
}

// AskEnableLocal requests to activate opt on this side (sends WILL).
func (r *Registry) AskEnableLocal(opt Option) error {
	return r.askEnable(true, opt)
}

// AskDisableLocal requests to deactivate opt on this side (sends WONT).
func (r *Registry) AskDisableLocal(opt Option) error {
	return r.askDisable(true, opt)
}

func (r *Registry) askEnable(isUs bool, opt Option) error {
	e := r.entry(opt)

	switch sideState(e, isUs) {
	case qNo:
		setSideState(e, isUs, qWantYesEmpty)
		r.send(activateAction(isUs), opt)
		return nil
	case qYes:
		return &ProtocolError{Kind: ErrNegotiation, Option: opt, Detail: "already enabled"}
	case qWantNoEmpty:
		setSideState(e, isUs, qWantNoOpposite)
		return nil
	case qWantNoOpposite:
		return &ProtocolError{Kind: ErrNegotiation, Option: opt, Detail: "already queued for re-enable"}
	case qWantYesEmpty:
		return &ProtocolError{Kind: ErrNegotiation, Option: opt, Detail: "already negotiating"}
	case qWantYesOpposite:
		setSideState(e, isUs, qWantYesEmpty)
		return nil
	}
	return nil
}

func (r *Registry) askDisable(isUs bool, opt Option) error {
	e := r.entry(opt)

	switch sideState(e, isUs) {
	case qNo:
		return &ProtocolError{Kind: ErrNegotiation, Option: opt, Detail: "already disabled"}
	case qYes:
		setSideState(e, isUs, qWantNoEmpty)
		r.send(deactivateAction(isUs), opt)
		return nil
	case qWantNoEmpty:
		return &ProtocolError{Kind: ErrNegotiation, Option: opt, Detail: "already queued"}
	case qWantNoOpposite:
		setSideState(e, isUs, qWantNoEmpty)
		return nil
	case qWantYesEmpty:
		setSideState(e, isUs, qWantYesOpposite)
		return nil
	case qWantYesOpposite:
		return &ProtocolError{Kind: ErrNegotiation, Option: opt, Detail: "already negotiating"}
	}
	return nil
}

// RemoteEnabled reports whether opt is currently active on the remote side.
func (r *Registry) RemoteEnabled(opt Option) bool {
	return sideState(r.entry(opt), false) == qYes
}

// LocalEnabled reports whether opt is currently active on this side.
func (r *Registry) LocalEnabled(opt Option) bool {
	return sideState(r.entry(opt), true) == qYes
}
