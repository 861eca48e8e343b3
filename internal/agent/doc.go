// Package agent implements the bounded tool-calling loop that turns a
// user request into calendar actions. The model decides per turn whether
// to answer or call tools; the loop dispatches calls through the registry
// and folds the results back into the transcript until the model answers
// with text or the round bound is reached.
package agent
