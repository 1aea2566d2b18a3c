// Package dictionary manages the per-campaign text-correction data: the
// custom word list of proper nouns, the correction-rule file, the phonetic
// index derived from the word list, and the general-English lexicon used to
// separate ordinary words from candidate terms.
package dictionary
