package gan_go

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

type layerCheckpoint struct {
	Weight     *Matrix
	Bias       *Matrix
	Activation Activation
}

type networkCheckpoint struct {
	Name   string
	Layers []layerCheckpoint
}

// Save Persists the network's weights, biases and activation kinds to fname
// via gob encoding
func (net *Network) Save(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't create checkpoint file '%s'", fname))
	}
	defer file.Close()

	checkpoint := networkCheckpoint{
		Name:   net.Name,
		Layers: make([]layerCheckpoint, len(net.Layers)),
	}
	for i, l := range net.Layers {
		checkpoint.Layers[i] = layerCheckpoint{
			Weight:     l.Weight.Value,
			Bias:       l.Bias.Value,
			Activation: l.Activation,
		}
	}
	if err := gob.NewEncoder(file).Encode(checkpoint); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't encode checkpoint '%s'", fname))
	}
	return nil
}

// Load Restores weights and biases from a checkpoint written by Save.
// The checkpoint must match the network's architecture exactly; values are
// copied into the existing parameter matrices, so references held by solvers
// stay valid.
func (net *Network) Load(fname string) error {
	file, err := os.Open(fname)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't open checkpoint file '%s'", fname))
	}
	defer file.Close()

	var checkpoint networkCheckpoint
	if err := gob.NewDecoder(file).Decode(&checkpoint); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't decode checkpoint '%s'", fname))
	}
	if len(checkpoint.Layers) != len(net.Layers) {
		return fmt.Errorf("Checkpoint has %d layers, but network '%s' has %d", len(checkpoint.Layers), net.Name, len(net.Layers))
	}
	for i, l := range net.Layers {
		loaded := checkpoint.Layers[i]
		if loaded.Activation != l.Activation {
			return fmt.Errorf("Checkpoint layer #%d has activation '%s', but network has '%s'", i, loaded.Activation, l.Activation)
		}
		if loaded.Weight.rows != l.Weight.Value.rows || loaded.Weight.cols != l.Weight.Value.cols {
			return fmt.Errorf("Checkpoint layer #%d weight has shape [%d, %d], but network has [%d, %d]",
				i, loaded.Weight.rows, loaded.Weight.cols, l.Weight.Value.rows, l.Weight.Value.cols)
		}
		if loaded.Bias.rows != l.Bias.Value.rows || loaded.Bias.cols != l.Bias.Value.cols {
			return fmt.Errorf("Checkpoint layer #%d bias has shape [%d, %d], but network has [%d, %d]",
				i, loaded.Bias.rows, loaded.Bias.cols, l.Bias.Value.rows, l.Bias.Value.cols)
		}
	}
	for i, l := range net.Layers {
		copy(l.Weight.Value.data, checkpoint.Layers[i].Weight.data)
		copy(l.Bias.Value.data, checkpoint.Layers[i].Bias.data)
	}
	return nil
}

// Save Persists generator weights to fname
func (net *GeneratorNet) Save(fname string) error {
	return net.private.Save(fname)
}

// Load Restores generator weights from a checkpoint written by Save
func (net *GeneratorNet) Load(fname string) error {
	return net.private.Load(fname)
}
