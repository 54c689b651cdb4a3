package gan_go

// Owner Tags which network a parameter belongs to. The Adam solver filters on
// this tag, so a discriminator step can never touch generator weights even
// though both networks participate in the same forward pass.
type Owner uint16

const (
	OwnerGenerator = Owner(iota)
	OwnerDiscriminator
)

func (o Owner) String() string {
	if o == OwnerGenerator {
		return "generator"
	}
	return "discriminator"
}

// Parameter Named mutable tensor (weight matrix or bias vector) with its
// accumulated gradient. Value and Grad always share one shape.
type Parameter struct {
	Name  string
	Owner Owner
	Value *Matrix
	Grad  *Matrix
}

// NewParameter Returns parameter with zeroed value and gradient of the given shape
func NewParameter(name string, owner Owner, rows, cols int) *Parameter {
	return &Parameter{
		Name:  name,
		Owner: owner,
		Value: NewMatrix(rows, cols),
		Grad:  NewMatrix(rows, cols),
	}
}

// ZeroGrad Resets accumulated gradient
func (p *Parameter) ZeroGrad() {
	p.Grad.Reset()
}
