// Package progression drives a competitor through an exam.
//
// The attempt state is never stored. It is derived from which of the exam's
// questions still lack a CompetitorAnswer from the competitor, so the engine
// only needs a Store that can answer those queries and run a transaction.
//
// Submit records an answer and, when it was the last one, finalizes the
// attempt inside the same transaction by scoring it and creating the single
// TakenExam record for the (competitor, exam) pair.
package progression
