package models

// HolderCount is the number of physical ticket holders on the wall.
const HolderCount = 56

// holderValueRule assigns one ticket denomination to an inclusive range of
// holder numbers.
type holderValueRule struct {
	lo, hi int
	value  int
}

// holderValueRules is applied in order when the lookup table is built; a later
// rule overwrites an earlier one for any holder both cover. The 33-41 range
// deliberately carves $5 holders out of the 15-42 $10 block, and holder 42 is
// then forced back to $10.
var holderValueRules = []holderValueRule{
	{1, 4, 30},
	{5, 8, 50},
	{9, 14, 20},
	{15, 42, 10},
	{33, 41, 5},
	{42, 42, 10},
	{43, 46, 1},
	{47, 55, 2},
	{56, 56, 5},
}

var holderValues = buildHolderValues()

func buildHolderValues() [HolderCount + 1]int {
	var values [HolderCount + 1]int
	for _, rule := range holderValueRules {
		for i := rule.lo; i <= rule.hi; i++ {
			values[i] = rule.value
		}
	}
	return values
}

// HolderTicketValue returns the dollar denomination dispensed by the given
// holder, or 0 for holder numbers outside the wall.
func HolderTicketValue(holder int) int {
	if holder < 1 || holder > HolderCount {
		return 0
	}
	return holderValues[holder]
}

// HolderSequence returns the holder numbers in the order the operator walks the
// wall during daily entry: down the first column, back up the second, and so
// on. The entry form and validation both follow this order.
func HolderSequence() []int {
	seq := make([]int, 0, HolderCount)
	for i := 1; i <= 14; i++ {
		seq = append(seq, i)
	}
	for i := 28; i >= 15; i-- {
		seq = append(seq, i)
	}
	for i := 29; i <= 42; i++ {
		seq = append(seq, i)
	}
	for i := 56; i >= 43; i-- {
		seq = append(seq, i)
	}
	return seq
}
