package expect

// Unit is the value carried by a matching extractor for a field-less
// variant. There is nothing to hand back beyond "it matched".
type Unit struct{}

// Tuple2 through Tuple6 carry the field values of multi-field variants
// through an Option.

type Tuple2[T1, T2 comparable] struct {
	V1 T1
	V2 T2
}

type Tuple3[T1, T2, T3 comparable] struct {
	V1 T1
	V2 T2
	V3 T3
}

type Tuple4[T1, T2, T3, T4 comparable] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
}

type Tuple5[T1, T2, T3, T4, T5 comparable] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
}

type Tuple6[T1, T2, T3, T4, T5, T6 comparable] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
}

func (t Tuple2[T1, T2]) Equal(o Tuple2[T1, T2]) bool { return t == o }

func (t Tuple3[T1, T2, T3]) Equal(o Tuple3[T1, T2, T3]) bool { return t == o }

func (t Tuple4[T1, T2, T3, T4]) Equal(o Tuple4[T1, T2, T3, T4]) bool { return t == o }

func (t Tuple5[T1, T2, T3, T4, T5]) Equal(o Tuple5[T1, T2, T3, T4, T5]) bool { return t == o }

func (t Tuple6[T1, T2, T3, T4, T5, T6]) Equal(o Tuple6[T1, T2, T3, T4, T5, T6]) bool { return t == o }
