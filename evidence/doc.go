// Package evidence collects the proof that substantiates a claimed fix.
//
// Collection is dispatched by the entry's evidence requirement type through
// a registry of strategies sharing one interface. Executable types run a
// test artifact under a bounded timeout and demand a zero exit status;
// inspection types read the guardrail implementation at its recorded
// location; manual types always fail automated collection, because a human
// judgment cannot be captured by a machine.
//
// The design principle throughout: absence or ambiguity of evidence is an
// evidentiary failure, never a success. A missing test artifact, an
// unreadable file, a timeout, or an unrecognized evidence type all come back
// as failed results with an actionable reason, and the entry stays claimed.
//
// Every result carries a fingerprint: a SHA-256 hash of the full captured
// output, binding the verification claim to the exact bytes observed even
// when the stored evidence string is truncated.
package evidence
