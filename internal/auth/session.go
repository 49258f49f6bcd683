package auth // sessions glue the issuer to a transport

import "net/http" // net/http response writers receive cookies and headers

// Sessions issues credentials and hands them to the configured transport.
//
// There is no server-side revocation list: End only tells the client to
// drop its credential, and a copy kept elsewhere stays valid until it
// expires.  Issuing a new credential (login, password change) likewise
// leaves earlier credentials for the same subject untouched.
type Sessions struct {
	issuer    *Issuer
	transport Transport
}

// NewSessions wires an issuer to a transport.
func NewSessions(issuer *Issuer, transport Transport) *Sessions {
	return &Sessions{issuer: issuer, transport: transport}
}

// Transport returns the transport credentials travel on.
func (s *Sessions) Transport() Transport { return s.transport }

// Begin mints a credential for subject and attaches it to w.
func (s *Sessions) Begin(w http.ResponseWriter, subject string, role Role) (Credential, error) {
	// Sign first; nothing is written to w unless issuance succeeds.
	cred, err := s.issuer.Issue(subject, role)
	if err != nil {
		return Credential{}, err
	}
	// Hand the credential to the client (cookie) or leave it for the body (header).
	s.transport.Attach(w, cred)
	return cred, nil
}

// End discards the client-held credential.  It never fails and may be
// called any number of times.
func (s *Sessions) End(w http.ResponseWriter) {
	s.transport.Clear(w)
}
