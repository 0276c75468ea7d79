package gosrc

import (
	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

// Evaluator risponde alle richieste di valutazione del collector. I valori
// delle chiamate sono pre-calcolati durante la conversione: a questo punto il
// lookup non può più fallire per motivi semantici, solo mancare.
type Evaluator struct {
	calls map[*cmodel.FunctionDecl]*cmodel.ConstantValue
}

func NewEvaluator() *Evaluator {
	return &Evaluator{calls: map[*cmodel.FunctionDecl]*cmodel.ConstantValue{}}
}

// EvaluateLiteral valuta un literal stringa. In Go un literal stringa è
// sempre una costante: il contenuto è già decodificato in Raw.
func (e *Evaluator) EvaluateLiteral(lit *cmodel.StringLiteral) (*cmodel.ConstantValue, bool) {
	if lit == nil {
		return nil, false
	}
	return cmodel.StringValue(lit.Raw, ""), true
}

// EvaluateCall ritorna il valore piegato del corpo di una funzione
// zero-argomenti, se la conversione lo ha riconosciuto costante.
func (e *Evaluator) EvaluateCall(fn *cmodel.FunctionDecl) (*cmodel.ConstantValue, bool) {
	v, ok := e.calls[fn]
	return v, ok
}
