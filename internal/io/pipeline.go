package io

import (
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Export runs the producer and numConsumers consumers over the cloud and waits for all of them.
// Errors raised by consumers are combined into the returned error.
func Export(producer Producer, newConsumer func() Consumer, numConsumers int, cloud *pointcloud.PointCloud) error {
	if numConsumers < 1 {
		numConsumers = 1
	}

	// work channel with a buffer 5 times greater than the number of consumers
	workChannel := make(chan *WorkUnit, numConsumers*5)

	// every consumer reports at most one error, the buffer keeps them from blocking
	errorChannel := make(chan error, numConsumers)

	var waitGroup sync.WaitGroup

	waitGroup.Add(1)
	go producer.Produce(workChannel, &waitGroup, cloud)

	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		go newConsumer().Consume(workChannel, errorChannel, &waitGroup)
	}

	waitGroup.Wait()
	close(errorChannel)

	var result error
	for err := range errorChannel {
		result = multierr.Append(result, err)
	}
	if result != nil {
		return errors.WithMessage(result, "errors raised while writing tiles")
	}
	return nil
}
